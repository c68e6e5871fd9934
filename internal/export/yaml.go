package export

import "gopkg.in/yaml.v3"

type rowYAML struct {
	ID          int64  `yaml:"id"`
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Amount      string `yaml:"amount"`
	Date        string `yaml:"date"`
	Category    string `yaml:"category"`
	IsRecurrent bool   `yaml:"is_recurrent"`
}

type YAMLEncoder struct{}

func (YAMLEncoder) Encode(rows []Row) ([]byte, error) {
	out := make([]rowYAML, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowYAML{
			ID:          r.ID,
			Name:        r.Name,
			Type:        r.Type,
			Amount:      r.Amount.StringFixed(2),
			Date:        r.Date.Format(dateLayout),
			Category:    r.Category,
			IsRecurrent: r.IsRecurrent,
		})
	}
	return yaml.Marshal(out)
}
