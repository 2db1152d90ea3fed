// Package bot implements the operator commands and the Telegram transport.
package bot

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go-mod.ewintr.nl/stockwatch/internal/category"
	"go-mod.ewintr.nl/stockwatch/internal/change"
)

const helpText = `✅ SHEINVERSE PRO STOCK BOT (OPTION C)

/addcategory <url>
/list
/remove <index>
/status

🔥 Exact stock + size analytics enabled`

type Command struct {
	From int64
	Name string
	Args string
}

// Handler answers operator commands. Commands from anyone else are ignored.
type Handler struct {
	operator int64
	registry *category.Registry
	detector *change.Detector
}

func NewHandler(operator int64, registry *category.Registry, detector *change.Detector) *Handler {
	return &Handler{
		operator: operator,
		registry: registry,
		detector: detector,
	}
}

// Handle returns the reply for cmd. The second return value is false when
// nothing should be sent back.
func (h *Handler) Handle(cmd Command) (string, bool) {
	if cmd.From != h.operator {
		return "", false
	}

	switch cmd.Name {
	case "start":
		return helpText, true
	case "addcategory":
		return h.addCategory(cmd.Args)
	case "list":
		return h.list(), true
	case "remove":
		return h.remove(cmd.Args), true
	case "status":
		return h.status(), true
	default:
		return "", false
	}
}

func (h *Handler) addCategory(args string) (string, bool) {
	fields := strings.Fields(args)
	if len(fields) != 1 {
		return "⚠️ Usage: /addcategory <url>", true
	}
	u, err := url.Parse(fields[0])
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Sprintf("⚠️ Not a valid http(s) URL: %s", fields[0]), true
	}

	if !h.registry.Add(fields[0]) {
		return "", false
	}
	return "✅ Category added", true
}

func (h *Handler) list() string {
	urls := h.registry.List()
	if len(urls) == 0 {
		return "No categories"
	}
	lines := make([]string, 0, len(urls))
	for i, u := range urls {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, u))
	}
	return strings.Join(lines, "\n")
}

func (h *Handler) remove(args string) string {
	fields := strings.Fields(args)
	if len(fields) != 1 {
		return "⚠️ Usage: /remove <index>"
	}
	idx, err := strconv.Atoi(fields[0])
	if err != nil {
		return "⚠️ Usage: /remove <index>"
	}

	removed, err := h.registry.Remove(idx)
	switch {
	case errors.Is(err, category.ErrOutOfRange):
		return fmt.Sprintf("❌ No category #%d", idx)
	case err != nil:
		return fmt.Sprintf("❌ %v", err)
	}
	return "🗑 Removed " + removed
}

func (h *Handler) status() string {
	urls := h.registry.List()
	if len(urls) == 0 {
		return "No categories"
	}
	lines := make([]string, 0, len(urls))
	for i, u := range urls {
		st, ok := h.detector.Last(u)
		if !ok {
			lines = append(lines, fmt.Sprintf("%d. %s : not scanned yet", i+1, u))
			continue
		}
		lines = append(lines, fmt.Sprintf("%d. %s : %d", i+1, u, st.Total))
	}
	return strings.Join(lines, "\n")
}
