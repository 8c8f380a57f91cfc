package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bookwire/bookwire/pkg/catalog"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan  = lipgloss.Color("36")  // Teal - genres
	colorWhite = lipgloss.Color("255") // Bright white - titles
	colorGray  = lipgloss.Color("245") // Gray - secondary text
	colorDim   = lipgloss.Color("240") // Dim gray - tree lines
)

// =============================================================================
// Styles
// =============================================================================

var (
	styleGenre  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleBook   = lipgloss.NewStyle().Foreground(colorWhite)
	styleAuthor = lipgloss.NewStyle().Foreground(colorGray)
	styleTree   = lipgloss.NewStyle().Foreground(colorDim)
)

// renderGraph formats a decoded graph as a genre → book → author tree.
// Books without a genre are grouped under a synthetic "(uncategorized)"
// heading at the end.
func renderGraph(g *catalog.Graph) string {
	var sb strings.Builder

	for _, genre := range g.Genres {
		sb.WriteString(styleGenre.Render(genre.Title))
		sb.WriteString("\n")
		renderBooks(&sb, genre.Books)
	}

	var orphans []*catalog.Book
	for _, b := range g.Books {
		if b.Genre == nil {
			orphans = append(orphans, b)
		}
	}
	if len(orphans) > 0 {
		sb.WriteString(styleGenre.Render("(uncategorized)"))
		sb.WriteString("\n")
		renderBooks(&sb, orphans)
	}

	return sb.String()
}

func renderBooks(sb *strings.Builder, books []*catalog.Book) {
	for i, b := range books {
		branch := "├─ "
		if i == len(books)-1 {
			branch = "└─ "
		}

		title := b.Title
		if b.PublishedAt != nil {
			title = fmt.Sprintf("%s (%d)", b.Title, b.PublishedAt.Year())
		}

		sb.WriteString(styleTree.Render(branch))
		sb.WriteString(styleBook.Render(title))
		if len(b.Authors) > 0 {
			names := make([]string, 0, len(b.Authors))
			for _, a := range b.Authors {
				names = append(names, a.FirstName+" "+a.LastName)
			}
			sb.WriteString(styleAuthor.Render(" by " + strings.Join(names, ", ")))
		}
		sb.WriteString("\n")
	}
}
