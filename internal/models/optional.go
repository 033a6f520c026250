package models

import (
	"bytes"
	"strconv"

	"github.com/shopspring/decimal"
)

// OptionalInt is a counter reading that may be absent. Blank, null or
// non-numeric JSON input leaves it invalid instead of failing the request;
// downstream arithmetic treats an invalid reading as "nothing counted yet".
type OptionalInt struct {
	Int   int
	Valid bool
}

func Int(v int) OptionalInt {
	return OptionalInt{Int: v, Valid: true}
}

func (n *OptionalInt) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(bytes.TrimSpace(data), `"`))
	if s == "" || s == "null" {
		*n = OptionalInt{}
		return nil
	}
	if v, err := strconv.Atoi(s); err == nil {
		*n = OptionalInt{Int: v, Valid: true}
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		*n = OptionalInt{Int: int(f), Valid: true}
		return nil
	}
	*n = OptionalInt{}
	return nil
}

func (n OptionalInt) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(n.Int)), nil
}

// OptionalMoney is a money amount that may be absent. The same tolerance
// applies: anything unparsable becomes zero and stays marked invalid.
type OptionalMoney struct {
	Amount decimal.Decimal
	Valid  bool
}

func Money(d decimal.Decimal) OptionalMoney {
	return OptionalMoney{Amount: d, Valid: true}
}

func (m *OptionalMoney) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(bytes.TrimSpace(data), `"`))
	if s == "" || s == "null" {
		*m = OptionalMoney{}
		return nil
	}
	if d, err := decimal.NewFromString(s); err == nil {
		*m = OptionalMoney{Amount: d, Valid: true}
		return nil
	}
	*m = OptionalMoney{}
	return nil
}

func (m OptionalMoney) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return m.Amount.MarshalJSON()
}
