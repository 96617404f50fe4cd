package bot

import (
	"context"
	"fmt"
	"html"
	"strings"

	"taxifleet/pkg/models"
)

func (b *Bot) statsText(ctx context.Context) (string, error) {
	counts, err := b.Svc.Dashboard().Counts(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(messages["stats"], counts.Drivers, counts.Cars, counts.Manufacturers), nil
}

func (b *Bot) manufacturersText(ctx context.Context, query string) (string, error) {
	page, err := b.Svc.Manufacturer().List(ctx, strings.TrimSpace(query), 1)
	if err != nil {
		return "", err
	}
	return listText("🏭", "Manufacturers", page, func(m *models.Manufacturer) string {
		return fmt.Sprintf("%s (%s)", m.Name, m.Country)
	}), nil
}

func (b *Bot) carsText(ctx context.Context, query string) (string, error) {
	page, err := b.Svc.Car().List(ctx, strings.TrimSpace(query), 1)
	if err != nil {
		return "", err
	}
	return listText("🚕", "Cars", page, func(c *models.Car) string {
		if c.Manufacturer == nil {
			return c.Model
		}
		return fmt.Sprintf("%s (%s)", c.Model, c.Manufacturer.Name)
	}), nil
}

func (b *Bot) driversText(ctx context.Context, query string) (string, error) {
	page, err := b.Svc.Driver().List(ctx, strings.TrimSpace(query), 1)
	if err != nil {
		return "", err
	}
	return listText("👤", "Drivers", page, func(d *models.Driver) string {
		return fmt.Sprintf("%s, %s", d.Username, d.LicenseNumber)
	}), nil
}

// listText renders the first page of a search. Labels are HTML-escaped.
func listText[T any](icon, title string, page models.Page[T], label func(T) string) string {
	if page.Total == 0 {
		return messages["no_results"]
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(messages["search_title"], icon, title, page.Total))
	for _, item := range page.Items {
		sb.WriteString("\n• ")
		sb.WriteString(html.EscapeString(label(item)))
	}
	if rest := page.Total - len(page.Items); rest > 0 {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf(messages["more"], rest))
	}
	return sb.String()
}
