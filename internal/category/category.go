package category

import (
	"fmt"

	"github.com/frahmantamala/savings/internal"
)

// Category is the closed set of money-flow categories. The integer value is
// the persisted code.
type Category int

const (
	Food Category = iota
	DailyLife
	House
	Bank
	Vacation
	Hobby
)

// Info is the display metadata of a category.
type Info struct {
	Code  Category `json:"code"`
	Key   string   `json:"key"`
	Label string   `json:"label"`
	Icon  string   `json:"icon"`
	Color string   `json:"color"`
	Hex   string   `json:"hex"`
}

var registry = [...]Info{
	Food:      {Code: Food, Key: "food", Label: "Food", Icon: "fork.knife", Color: "orange", Hex: "#FF9500"},
	DailyLife: {Code: DailyLife, Key: "dailyLife", Label: "Daily life", Icon: "fork.knife", Color: "purple", Hex: "#AF52DE"},
	House:     {Code: House, Key: "house", Label: "House", Icon: "house", Color: "blue", Hex: "#007AFF"},
	Bank:      {Code: Bank, Key: "bank", Label: "Bank", Icon: "dollarsign", Color: "green", Hex: "#34C759"},
	Vacation:  {Code: Vacation, Key: "vacation", Label: "Vacation", Icon: "beach.umbrella", Color: "blue", Hex: "#007AFF"},
	Hobby:     {Code: Hobby, Key: "hobby", Label: "Hobby", Icon: "figure.dance", Color: "pink", Hex: "#FF2D55"},
}

const (
	MinCode = int(Food)
	MaxCode = int(Hobby)
)

func (c Category) Valid() bool {
	return int(c) >= MinCode && int(c) <= MaxCode
}

func (c Category) Info() Info {
	return Lookup(int(c))
}

func (c Category) String() string {
	return c.Info().Key
}

// Parse converts a stored or submitted code, rejecting anything outside the
// closed set.
func Parse(code int) (Category, error) {
	c := Category(code)
	if !c.Valid() {
		return Food, internal.ErrInvalidCategory.WithCause(fmt.Errorf("code %d", code))
	}
	return c, nil
}

// Lookup is total: unknown codes display as Food.
func Lookup(code int) Info {
	if c := Category(code); c.Valid() {
		return registry[c]
	}
	return registry[Food]
}

// All returns every category in code order.
func All() []Info {
	out := make([]Info, len(registry))
	copy(out, registry[:])
	return out
}
