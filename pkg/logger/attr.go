package logger

import (
	"fmt"
	"log/slog"
)

func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}

func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// State logs a state name.
func State(s fmt.Stringer) slog.Attr {
	return slog.String("state", s.String())
}

// Transition logs a from -> to pair.
func Transition(from, to fmt.Stringer) slog.Attr {
	return slog.Group("transition", slog.String("from", from.String()), slog.String("to", to.String()))
}

func TransactionID(id string) slog.Attr {
	return slog.String("transaction_id", id)
}

func RequestID(id string) slog.Attr {
	return slog.String("request_id", id)
}

func ProductID(id int) slog.Attr {
	return slog.Int("product_id", id)
}

// Amount logs a value in minor units.
func Amount(v int) slog.Attr {
	return slog.Int("amount", v)
}

// Coins logs a denomination multiset using its String form.
func Coins(c fmt.Stringer) slog.Attr {
	return slog.String("coins", c.String())
}
