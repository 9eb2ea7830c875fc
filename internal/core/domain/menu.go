package domain

import (
	"fmt"
	"strings"
)

// Menu is one of the two lunch choices offered each day.
type Menu string

const (
	MenuHomestyle Menu = "homestyle"
	MenuFreshMeal Menu = "freshmeal"
)

// Menus lists every choice in display order.
var Menus = []Menu{MenuHomestyle, MenuFreshMeal}

// legacyMenuLabels maps the labels stored by the first version of the bot.
var legacyMenuLabels = map[string]Menu{
	"가정식":  MenuHomestyle,
	"프레시밀": MenuFreshMeal,
}

// ParseMenu accepts a menu code (case-insensitive) or a legacy label.
func ParseMenu(s string) (Menu, error) {
	trimmed := strings.TrimSpace(s)
	if m, ok := legacyMenuLabels[trimmed]; ok {
		return m, nil
	}
	m := Menu(strings.ToLower(trimmed))
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidMenu, s)
	}
	return m, nil
}

func (m Menu) Valid() bool {
	return m == MenuHomestyle || m == MenuFreshMeal
}

func (m Menu) Label() string {
	switch m {
	case MenuHomestyle:
		return "Home-style"
	case MenuFreshMeal:
		return "Fresh meal"
	default:
		return string(m)
	}
}

// MenuCounts holds a count per menu. Constructed through NewMenuCounts it
// always carries an entry for every menu, zero included.
type MenuCounts map[Menu]int

func NewMenuCounts() MenuCounts {
	counts := make(MenuCounts, len(Menus))
	for _, m := range Menus {
		counts[m] = 0
	}
	return counts
}

func (c MenuCounts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}
