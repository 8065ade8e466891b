// Package serialize encodes the rate table to and from flat rate
// mappings for persistence and transport. Keys follow the fixed wire
// convention FROM_TO or FROM_TO_AT_YYYY-MM-DD; implementations that
// interoperate must reproduce it exactly.
package serialize

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/slbug/nbrb-currency/internal/domain/currency"
	"github.com/slbug/nbrb-currency/internal/domain/entity"
	"github.com/slbug/nbrb-currency/internal/domain/repository"
)

const (
	// keySeparator joins the two currency codes of a wire key.
	keySeparator = "_"
	// dateSeparator joins the pair with its optional date.
	dateSeparator = "_AT_"
)

// EncodeKey builds the wire key for one rate entry. Currency codes are
// short alphabetic ISO identifiers and must never contain the separator
// tokens themselves.
func EncodeKey(from, to string, date *time.Time) string {
	key := currency.Normalize(from) + keySeparator + currency.Normalize(to)
	if date != nil {
		key += dateSeparator + date.Format("2006-01-02")
	}
	return key
}

// DecodeKey splits a wire key back into its pair and optional date.
func DecodeKey(key string) (from, to string, date *time.Time, err error) {
	parts := strings.SplitN(key, keySeparator, 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", nil, fmt.Errorf("malformed rate key %q", key)
	}
	from = parts[0]
	to = parts[1]

	if rest := strings.SplitN(to, dateSeparator, 2); len(rest) == 2 {
		to = rest[0]
		d, perr := time.Parse("2006-01-02", rest[1])
		if perr != nil {
			return "", "", nil, fmt.Errorf("malformed date in rate key %q: %w", key, perr)
		}
		d = entity.Day(d)
		date = &d
	}
	return from, to, date, nil
}

// ExportRates dumps every stored rate in the given format. The dump is
// built inside one store transaction so it reflects a single consistent
// state.
func ExportRates(repo repository.RateRepository, format Format) ([]byte, error) {
	codec, err := codecFor(format)
	if err != nil {
		return nil, err
	}

	var encoded []byte
	err = repo.Transaction(func(tx repository.RateRepository) error {
		flat := make(map[string]string)
		tx.EachRate(func(from, to string, rate decimal.Decimal, date *time.Time) bool {
			flat[EncodeKey(from, to, date)] = rate.StringFixed(entity.DecimalPrecision)
			return true
		})

		var encErr error
		encoded, encErr = codec.Encode(flat)
		return encErr
	})
	if err != nil {
		return nil, err
	}
	return encoded, nil
}

// ImportRates decodes a dump produced by ExportRates and replays every
// entry into the repository inside one transaction.
func ImportRates(repo repository.RateRepository, format Format, data []byte) error {
	codec, err := codecFor(format)
	if err != nil {
		return err
	}

	flat, err := codec.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to decode %s rates: %w", format, err)
	}

	return repo.Transaction(func(tx repository.RateRepository) error {
		for key, value := range flat {
			from, to, date, err := DecodeKey(key)
			if err != nil {
				return err
			}
			rate, err := decimal.NewFromString(value)
			if err != nil {
				return fmt.Errorf("malformed rate %q for key %q: %w", value, key, err)
			}
			tx.SetRate(from, to, rate, date)
		}
		return nil
	})
}
