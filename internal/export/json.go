package export

import "encoding/json"

type JSONEncoder struct{}

func (JSONEncoder) Encode(rows []Row) ([]byte, error) {
	b, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}
