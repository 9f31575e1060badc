package utils

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/shopspring/decimal"

	"github.com/DrDelphi/LuckeeBot/data"
)

// HTTPError is returned by GetHTTP for non-2xx responses
type HTTPError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("GET %s: status %d: %s", e.URL, e.StatusCode, e.Body)
}

// GetHTTP issues a GET request and returns the body of a 2xx response.
// A nil client uses http.DefaultClient.
func GetHTTP(ctx context.Context, client *http.Client, address string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, address, nil)
	if err != nil {
		return nil, err
	}
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(body)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return nil, &HTTPError{URL: address, StatusCode: resp.StatusCode, Body: snippet}
	}

	return body, nil
}

func FormatTgUser(user *tgbotapi.User) string {
	name := fmt.Sprintf("%s %s [%v]", user.FirstName, user.LastName, user.ID)
	name = strings.TrimSpace(name)
	name = strings.Replace(name, "  ", " ", 1)
	if user.UserName != "" {
		name = fmt.Sprintf("@%s (%s)", user.UserName, name)
	}

	return name
}

func FormatDbTgUser(user *data.Telegram) string {
	if user.UserName != "" {
		return "@" + user.UserName
	}

	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	return fmt.Sprintf("[%s](tg://user?id=%v)", name, user.ID)
}

// FormatAmount renders an integer amount of base units with the given number
// of decimals, trimming trailing zeroes and grouping thousands
func FormatAmount(baseUnits string, decimals int32) string {
	d, err := decimal.NewFromString(baseUnits)
	if err != nil {
		return "0"
	}

	d = d.Shift(-decimals)
	whole := d.Truncate(0)
	frac := d.Sub(whole).Abs()

	s := whole.String()
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	for idx := len(s) - 3; idx > 0; idx -= 3 {
		s = s[:idx] + "," + s[idx:]
	}
	if neg {
		s = "-" + s
	}

	if !frac.IsZero() {
		s += strings.TrimPrefix(frac.String(), "0")
	}

	return s
}

// ToBaseUnits converts a whole number of display units into base units
func ToBaseUnits(units uint64, decimals int32) string {
	return decimal.NewFromInt(int64(units)).Shift(decimals).String()
}

func ShortenAddress(address string) string {
	l := len(address)
	if l < 14 {
		return address
	}

	return address[:8] + "..." + address[l-6:]
}

// FormatDuration renders a remaining time as "1h 2m", "2m 5s" or "5s"
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "ended"
	}

	d = d.Round(time.Second)
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

// FormatSelection renders numbers and their multipliers as "012 x2, 045"
func FormatSelection(numbers []uint16, multipliers map[uint16]uint32) string {
	sorted := append([]uint16(nil), numbers...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	parts := make([]string, 0, len(sorted))
	for _, n := range sorted {
		part := fmt.Sprintf("%03d", n)
		if m := multipliers[n]; m > 1 {
			part += fmt.Sprintf(" x%d", m)
		}
		parts = append(parts, part)
	}

	return strings.Join(parts, ", ")
}

// EscapeMarkdown escapes the characters Telegram's legacy markdown treats specially
func EscapeMarkdown(s string) string {
	return strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[").Replace(s)
}
