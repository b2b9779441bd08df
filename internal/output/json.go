package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dshills/prscan/internal/batch"
)

// JSONWriter outputs the full run document as JSON.
type JSONWriter struct{}

func (j *JSONWriter) Write(w io.Writer, doc *batch.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}
