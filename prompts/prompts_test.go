package prompts

import (
	"strings"
	"testing"
)

func TestPlayerReport(t *testing.T) {
	prompt := PlayerReport("Aaron Judge", 2025)

	for _, want := range []string{
		`lookup_player("Aaron Judge")`,
		"the 2025 season",
		"```html",
		"<!DOCTYPE html>",
		"Aaron Judge Performance Report",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("PlayerReport missing %q", want)
		}
	}

	// The embedded skeleton must come out with its CSS intact, not mangled by
	// format verbs.
	if !strings.Contains(prompt, "max-width: 100%;") {
		t.Error("Skeleton CSS should render a literal percent sign")
	}
	if strings.Contains(prompt, "%!") {
		t.Error("Prompt contains a formatting artifact")
	}
}

func TestPlayerReport_CurrentSeason(t *testing.T) {
	prompt := PlayerReport("Shohei Ohtani", 0)
	if !strings.Contains(prompt, "the current/most recent season") {
		t.Error("Season 0 should describe the current season")
	}
}

func TestTeamComparison(t *testing.T) {
	prompt := TeamComparison("Yankees", "Red Sox", "pitching")
	for _, want := range []string{"Yankees", "Red Sox", `focus area "pitching"`, "```html"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("TeamComparison missing %q", want)
		}
	}

	prompt = TeamComparison("Dodgers", "Giants", "")
	if !strings.Contains(prompt, `focus area "overall"`) {
		t.Error("Empty focus should default to overall")
	}
}

func TestGameRecap(t *testing.T) {
	prompt := GameRecap(717465)
	if !strings.Contains(prompt, "get_boxscore(717465)") {
		t.Error("GameRecap should reference the game id")
	}
	if !strings.Contains(prompt, "```html") {
		t.Error("GameRecap should request a fenced HTML document")
	}
}

func TestStatisticalDeepDive(t *testing.T) {
	prompt := StatisticalDeepDive("homeRuns", 2024)
	for _, want := range []string{`"homeRuns"`, "the 2024 season", "```html"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("StatisticalDeepDive missing %q", want)
		}
	}
}

func TestDefaultSystemRequestsFencedHTML(t *testing.T) {
	if !strings.Contains(DefaultSystem, "```html") {
		t.Error("System prompt should ask for a fenced HTML document")
	}
}
