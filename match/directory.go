package match

// Team is a directory entry. Rank is 1-based, lower is better.
type Team struct {
	ID   int64
	Name string
	Rank int
}

// Directory maps team id to its resolved name and rank.
type Directory map[int64]Team

// NewDirectory builds a directory from teams listed best first; the list
// position becomes the rank.
func NewDirectory(teams []Team) Directory {
	d := make(Directory, len(teams))
	rank := 0
	for _, t := range teams {
		if t.ID == 0 {
			continue
		}
		if _, dup := d[t.ID]; dup {
			continue
		}
		rank++
		t.Rank = rank
		d[t.ID] = t
	}
	return d
}

// Resolve returns a copy of m with team names and ranks joined from the
// directory. Teams missing from the directory keep any name already on the
// record, otherwise they become Unknown with no rank. An empty tournament is
// also marked Unknown.
func (d Directory) Resolve(m Match) Match {
	m.TeamAName, m.TeamARank = d.lookup(m.TeamAID, m.TeamAName)
	m.TeamBName, m.TeamBRank = d.lookup(m.TeamBID, m.TeamBName)
	if m.Tournament == "" {
		m.Tournament = Unknown
	}
	return m
}

func (d Directory) lookup(id int64, current string) (string, *int) {
	if t, ok := d[id]; ok && id != 0 {
		rank := t.Rank
		name := t.Name
		if name == "" {
			name = Unknown
		}
		return name, &rank
	}
	if current == "" {
		return Unknown, nil
	}
	return current, nil
}
