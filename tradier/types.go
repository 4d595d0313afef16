package tradier

import (
	"bytes"

	"github.com/xhhuango/json"
)

// oneOrMany decodes a field that Tradier sends as a bare object when there is
// a single element and as an array otherwise. null decodes to an empty list.
type oneOrMany[T any] []T

func (o *oneOrMany[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*o = nil
		return nil
	}
	if data[0] == '[' {
		var many []T
		if err := json.Unmarshal(data, &many); err != nil {
			return err
		}
		*o = many
		return nil
	}
	var one T
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*o = []T{one}
	return nil
}

type Quote struct {
	Symbol    string   `json:"symbol"`
	Last      *float64 `json:"last"`
	Bid       float64  `json:"bid"`
	Ask       float64  `json:"ask"`
	Prevclose *float64 `json:"prevclose"`
}

type quotesResponse struct {
	Quotes struct {
		Quote oneOrMany[Quote] `json:"quote"`
	} `json:"quotes"`
}

type HistoryDay struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

type historyResponse struct {
	History *struct {
		Day oneOrMany[HistoryDay] `json:"day"`
	} `json:"history"`
}

type expirationsResponse struct {
	Expirations *struct {
		Date oneOrMany[string] `json:"date"`
	} `json:"expirations"`
}

// chainOption is one row of an option chain.
type chainOption struct {
	Symbol         string  `json:"symbol"`
	Underlying     string  `json:"underlying"`
	Strike         float64 `json:"strike"`
	Bid            float64 `json:"bid"`
	Ask            float64 `json:"ask"`
	OpenInterest   int     `json:"open_interest"`
	ExpirationDate string  `json:"expiration_date"`
	OptionType     string  `json:"option_type"`
}

type chainResponse struct {
	Options *struct {
		Option oneOrMany[chainOption] `json:"option"`
	} `json:"options"`
}
