// Package instruction builds the prompt handed to the agent for a task.
package instruction

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/spachava753/webmall-eval/internal/models"
	"github.com/spachava753/webmall-eval/internal/placeholder"
)

// Buyer and payment tokens filled in for checkout categories.
var (
	userDetailTokens  = []string{"name", "email", "street", "house_number", "zip", "city", "state", "country"}
	paymentInfoTokens = []string{"card", "cvv", "expiry_date"}
)

// Composition is a composed instruction.
type Composition struct {
	Text string
	// ProtocolReplaced is false when the solution-page passage was not found.
	ProtocolReplaced bool
}

// Composer turns resolved tasks into agent instructions.
type Composer struct {
	base               placeholder.Map
	checkoutCategories []string
	oldProtocol        string
	newProtocol        string
}

// NewComposer creates a composer for the given sites. Tasks whose category
// is in checkoutCategories also get buyer and payment substitutions.
func NewComposer(sites models.Sites, checkoutCategories []string) *Composer {
	base := placeholder.SiteMap(sites)
	for i, name := range sites.ShopNames {
		if name == "" {
			continue
		}
		base = base.With(placeholder.Pair{Token: fmt.Sprintf("Shop%d", i+1), Value: name})
	}

	return &Composer{
		base:               base,
		checkoutCategories: checkoutCategories,
		oldProtocol:        SolutionPageProtocol(sites),
		newProtocol:        FinalMessageProtocol(sites),
	}
}

// Compose returns the instruction for task. A missing solution-page passage
// leaves the text unchanged.
func (c *Composer) Compose(task models.Task) Composition {
	r := placeholder.NewResolver(c.mapFor(task))

	general := strings.ReplaceAll(r.ResolveString(task.Instruction), `\n`, "\n")
	specific := strings.ReplaceAll(r.ResolveString(task.Task), `\n`, "\n")
	text := general + specific

	if !strings.Contains(text, c.oldProtocol) {
		if strings.Contains(text, placeholder.DirectReportProtocol) {
			slog.Debug("instruction already uses the direct report protocol", "task", task.ID)
		} else {
			slog.Warn("solution page protocol not found, passing instruction through unchanged",
				"task", task.ID, "category", task.Category)
		}
		return Composition{Text: text}
	}

	return Composition{
		Text:             strings.ReplaceAll(text, c.oldProtocol, c.newProtocol),
		ProtocolReplaced: true,
	}
}

func (c *Composer) mapFor(task models.Task) placeholder.Map {
	if !slices.Contains(c.checkoutCategories, task.Category) {
		return c.base
	}

	var pairs []placeholder.Pair
	for _, key := range userDetailTokens {
		pairs = append(pairs, placeholder.Pair{Token: "{{" + key + "}}", Value: models.Field(task.UserDetails, key)})
	}
	for _, key := range paymentInfoTokens {
		pairs = append(pairs, placeholder.Pair{Token: "{{" + key + "}}", Value: models.Field(task.PaymentInfo, key)})
	}
	return c.base.With(pairs...)
}
