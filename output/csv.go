package output

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/padraicbc/dotawatch/pipeline"
)

// WriteCSV writes a header row and one row per scored match, in order.
func WriteCSV(w io.Writer, scored []pipeline.Scored) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, sc := range scored {
		if err := cw.Write(record(sc)); err != nil {
			return fmt.Errorf("writing match %d: %w", sc.Match.MatchID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
