package export

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/frahmantamala/savings/internal"
	"github.com/frahmantamala/savings/internal/moneyflow"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Row is the flat record written by every export format.
type Row struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Category    string          `json:"category"`
	IsRecurrent bool            `json:"is_recurrent"`
}

type Encoder interface {
	Encode(rows []Row) ([]byte, error)
}

type LedgerReader interface {
	All(ctx context.Context) ([]*moneyflow.MoneyFlow, error)
}

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCSV  = "csv"
)

var Formats = []string{FormatJSON, FormatYAML, FormatCSV}

func EncoderFor(format string) (Encoder, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatJSON:
		return JSONEncoder{}, nil
	case FormatYAML, "yml":
		return YAMLEncoder{}, nil
	case FormatCSV:
		return CSVEncoder{}, nil
	}
	return nil, internal.NewValidationError(
		fmt.Sprintf("unsupported export format %q, expected one of %s", format, strings.Join(Formats, ", ")),
		internal.ErrCodeValidationFailed)
}

func RowsFrom(flows []*moneyflow.MoneyFlow) []Row {
	rows := make([]Row, 0, len(flows))
	for _, f := range flows {
		rows = append(rows, Row{
			ID:          f.ID,
			Name:        f.Name,
			Type:        string(f.Type()),
			Amount:      f.Amount,
			Date:        f.Date,
			Category:    f.Category.String(),
			IsRecurrent: f.IsRecurrent,
		})
	}
	return rows
}

// Write reads the whole ledger and writes it to w in the encoder's format.
func Write(ctx context.Context, reader LedgerReader, w io.Writer, enc Encoder) (int, error) {
	flows, err := reader.All(ctx)
	if err != nil {
		return 0, err
	}
	rows := RowsFrom(flows)
	b, err := enc.Encode(rows)
	if err != nil {
		return 0, err
	}
	if _, err := w.Write(b); err != nil {
		return 0, err
	}
	return len(rows), nil
}
