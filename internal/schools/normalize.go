package schools

import (
	"encoding/json"
	"errors"
	"fmt"
	"schoolfinder/internal/components/telemetry"
	"strconv"
)

const (
	report_normalize        = "normalize"
	report_normalize_record = "normalize.record"
	report_normalize_count  = "normalize.count"
)

var ErrUnexpectedShape = errors.New("unexpected data format")

// RecordError is a single entry that could not be normalized.
type RecordError struct {
	Index int
	Err   error
}

func (e RecordError) Error() string {
	return fmt.Sprintf("record %d: %s", e.Index, e.Err.Error())
}

func (e RecordError) Unwrap() error {
	return e.Err
}

// Normalize turns the decoded store locator response into Schools, in
// input order. Anything that is not a list yields an empty result, entries
// that are not objects are skipped. Neither case is fatal.
func Normalize(data any, tel telemetry.API) []School {
	tel = telemetry.NewScopedAPI("schools", tel)

	entries, ok := data.([]any)
	if !ok {
		tel.ReportBroken(report_normalize, fmt.Errorf("%w: got %T", ErrUnexpectedShape, data))
		return []School{}
	}

	result := make([]School, 0, len(entries))
	for i, entry := range entries {
		school, err := NormalizeRecord(entry)
		if err != nil {
			tel.ReportWarning(report_normalize_record, RecordError{Index: i, Err: err})
			continue
		}
		result = append(result, school)
	}
	tel.ReportCount(report_normalize_count, int64(len(result)))

	return result
}

// NormalizeRecord looks up every FieldMap source key in a single entry.
func NormalizeRecord(entry any) (School, error) {
	raw, ok := entry.(RawRecord)
	if !ok {
		return School{}, fmt.Errorf("expected an object, got %T", entry)
	}

	var school School
	for _, f := range FieldMap {
		text, err := toText(raw[f.SourceKey])
		if err != nil {
			return School{}, fmt.Errorf("field %s: %w", f.SourceKey, err)
		}
		*f.get(&school) = text
	}
	return school, nil
}

func toText(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(encoded), nil
	}
}
