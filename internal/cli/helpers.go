package cli

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/alexanderramin/cmscontent/internal/domain"
	"github.com/spf13/pflag"
)

const dateLayout = "2006-01-02"

// slugify derives a slug from a display name: lowercase letters and digits
// joined by single hyphens.
func slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)), r == '_':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// parseOptionalDate parses YYYY-MM-DD as a UTC date. Empty input yields the
// zero time.
func parseOptionalDate(flag, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s date %q: use YYYY-MM-DD", flag, value)
	}
	return t.UTC(), nil
}

// parsePubStatus accepts a status code (pub) or its label (published).
func parsePubStatus(value string) (domain.PubStatus, error) {
	if value == "" {
		return "", nil
	}
	v := strings.ToLower(strings.TrimSpace(value))
	for status, label := range domain.ValidPubStatuses {
		if v == string(status) || v == label {
			return status, nil
		}
	}
	return "", fmt.Errorf("invalid status %q: use published, hidden, draft or deleted", value)
}

// pubStatusValue is a --status flag that rejects unknown statuses at parse
// time and stores the status code.
type pubStatusValue domain.PubStatus

var _ pflag.Value = (*pubStatusValue)(nil)

func (v *pubStatusValue) String() string { return string(*v) }
func (v *pubStatusValue) Type() string   { return "status" }

func (v *pubStatusValue) Set(s string) error {
	status, err := parsePubStatus(s)
	if err != nil {
		return err
	}
	*v = pubStatusValue(status)
	return nil
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
