package export

import (
	"bytes"
	"encoding/csv"
	"strconv"
)

var csvHeader = []string{"id", "name", "type", "amount", "date", "category", "is_recurrent"}

type CSVEncoder struct{}

func (CSVEncoder) Encode(rows []Row) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, r := range rows {
		rec := []string{
			strconv.FormatInt(r.ID, 10),
			r.Name,
			r.Type,
			r.Amount.StringFixed(2),
			r.Date.Format(dateLayout),
			r.Category,
			strconv.FormatBool(r.IsRecurrent),
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
