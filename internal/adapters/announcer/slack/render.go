package slack

import (
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"github.com/vncsmyrnk/lunchorder/internal/core/domain"
)

// Action ids of the vote buttons. The chat event handler maps them back
// to menus.
const (
	ActionOrderHomestyle = "order_homestyle"
	ActionOrderFreshMeal = "order_freshmeal"
	voteActionsBlockID   = "order_actions"
)

func ActionID(m domain.Menu) string {
	return "order_" + string(m)
}

// MenuForAction is the inverse of ActionID.
func MenuForAction(actionID string) (domain.Menu, bool) {
	m := domain.Menu(strings.TrimPrefix(actionID, "order_"))
	if !strings.HasPrefix(actionID, "order_") || !m.Valid() {
		return "", false
	}
	return m, true
}

func headline(a domain.Announcement) string {
	switch a.Kind {
	case domain.AnnouncementOpening:
		return fmt.Sprintf(":bento: *Lunch orders for %s are open.* Pick a menu before %02d:00.", a.Date, a.CloseHour)
	case domain.AnnouncementFinal:
		return fmt.Sprintf(":lock: *Lunch orders for %s are closed.*", a.Date)
	case domain.AnnouncementDelivery:
		return ":rice: *Lunch has arrived!* Come and get it."
	default:
		return fmt.Sprintf("Lunch orders for %s", a.Date)
	}
}

func totalsLine(a domain.Announcement) string {
	parts := make([]string, 0, len(domain.Menus))
	for _, m := range domain.Menus {
		parts = append(parts, fmt.Sprintf("%s: *%d*", m.Label(), a.MenuTotals[m]))
	}
	return fmt.Sprintf("%s  (total %d)", strings.Join(parts, "  |  "), a.Voters)
}

// FallbackText is shown by clients that cannot render blocks, and in
// notifications.
func FallbackText(a domain.Announcement) string {
	text := strings.ReplaceAll(headline(a), "*", "")
	if a.Kind == domain.AnnouncementDelivery {
		return text
	}
	return text + " " + strings.ReplaceAll(totalsLine(a), "*", "")
}

// Blocks renders a as Block Kit. Only the opening announcement carries
// vote buttons.
func Blocks(a domain.Announcement) []slack.Block {
	blocks := []slack.Block{
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, headline(a), false, false), nil, nil),
	}
	if a.Kind == domain.AnnouncementDelivery {
		return blocks
	}

	blocks = append(blocks,
		slack.NewContextBlock("", slack.NewTextBlockObject(slack.MarkdownType, totalsLine(a), false, false)),
	)

	if a.Kind == domain.AnnouncementOpening {
		buttons := make([]slack.BlockElement, 0, len(domain.Menus))
		for i, m := range domain.Menus {
			button := slack.NewButtonBlockElement(ActionID(m), string(m),
				slack.NewTextBlockObject(slack.PlainTextType, m.Label(), false, false))
			if i == 0 {
				button = button.WithStyle(slack.StylePrimary)
			}
			buttons = append(buttons, button)
		}
		blocks = append(blocks, slack.NewActionBlock(voteActionsBlockID, buttons...))
	}
	return blocks
}
