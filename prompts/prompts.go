// Package prompts provides structured report-prompt builders. Each builder
// returns the step-by-step instructions that guide the model from tool-backed
// data gathering to a complete HTML report.
package prompts

import (
	"fmt"
)

// htmlSkeleton is the report layout the model is asked to fill in. Styling
// follows the standard report look: stat cards in a grid, highlighted exit
// velocity metrics, and base64-embedded plots.
const htmlSkeleton = `<!DOCTYPE html>
<html>
<head>
    <title>%[1]s</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; background-color: #f5f5f5; }
        .container { max-width: 1200px; margin: 0 auto; background-color: white; padding: 20px; border-radius: 10px; }
        .header { text-align: center; border-bottom: 3px solid #003366; padding-bottom: 20px; margin-bottom: 30px; }
        .section { margin-bottom: 30px; }
        .stats-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr)); gap: 15px; margin: 20px 0; }
        .stat-card { background-color: #f8f9fa; padding: 15px; border-radius: 8px; text-align: center; }
        .stat-value { font-size: 24px; font-weight: bold; color: #003366; }
        .stat-label { font-size: 12px; color: #666; margin-top: 5px; }
        .highlights { background-color: #e7f3ff; padding: 15px; border-radius: 8px; }
        .analysis { background-color: #fff3e0; padding: 15px; border-radius: 8px; }
        .plot-container { text-align: center; margin: 20px 0; }
        .plot-container img { max-width: 100%%; height: auto; border: 1px solid #ddd; border-radius: 8px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header"><h1>%[1]s</h1></div>
        <!-- sections -->
    </div>
</body>
</html>`

// seasonText renders a season qualifier for prompt text.
func seasonText(season int) string {
	if season == 0 {
		return "the current/most recent season"
	}
	return fmt.Sprintf("the %d season", season)
}

// PlayerReport builds the prompt for a comprehensive player performance report.
// season 0 means the current season.
func PlayerReport(playerName string, season int) string {
	skeleton := fmt.Sprintf(htmlSkeleton, playerName+" Performance Report")

	steps := fmt.Sprintf(`Create a comprehensive performance report for %[1]s for %[2]s.

STEP 1: PLAYER IDENTIFICATION
1. Use lookup_player("%[1]s") to find the player and their MLB ID
2. If multiple players are found, select the most relevant/current one

STEP 2: DETERMINE PLAYER TYPE AND GET CORE STATS
1. Use get_player_stats(player_id, group="hitting") for batting stats
2. Use get_player_stats(player_id, group="pitching") for pitching stats
3. Decide whether this is primarily a batter, a pitcher, or a two-way player and
   focus the report accordingly

STEP 3: GET CONTEXTUAL DATA
1. Use get_team_leaders() to compare the player against team leaders in relevant categories
2. Use get_standings() to see how their team is performing
3. Use get_schedule() and get_boxscore() for notable recent games

STEP 4: CREATE THE HTML REPORT
Generate a complete HTML report following this structure, filling every section
with real data from the tools above:

`, playerName, seasonText(season))

	const guidelines = `

ANALYSIS GUIDELINES:
- Compare current season performance to career averages where possible
- Identify strengths and areas for improvement from the data you gathered
- Put performance in context of team success and league standards
- For batters: focus on contact quality, power, and plate discipline
- For pitchers: focus on limiting hard contact, command, and stuff quality

Generate a complete HTML report that baseball analysts and fans would find
comprehensive and insightful.`

	return steps + "```html\n" + skeleton + "\n```" + guidelines
}

// TeamComparison builds the prompt for a two-team comparison report.
// focusArea is one of "overall", "hitting", "pitching", "recent".
func TeamComparison(team1, team2, focusArea string) string {
	if focusArea == "" {
		focusArea = "overall"
	}
	return fmt.Sprintf(`Create a comprehensive comparison between %[1]s and %[2]s with focus on %[3]s.

STEP 1: BASIC TEAM INFO
1. Use get_standings() to get current records and division standings for both teams
2. Use get_schedule() to find recent head-to-head matchups this season

STEP 2: STATISTICAL COMPARISON
Based on focus area "%[3]s", use get_team_leaders() for the key offensive
categories (homeRuns, rbi, battingAverage) and/or pitching categories
(earnedRunAverage, wins, strikeouts) of both teams.

STEP 3: HEAD-TO-HEAD ANALYSIS
Use get_boxscore() on recent meetings to identify key player matchups and
series results.

STEP 4: GENERATE THE HTML REPORT
Create a detailed comparison report as a complete HTML document inside an
`+"```html"+` fenced block, with stats tables and a side-by-side layout. Focus on
competitive advantages, key matchups, and prediction factors.`, team1, team2, focusArea)
}

// GameRecap builds the prompt for a single-game recap report.
func GameRecap(gameID int) string {
	return fmt.Sprintf(`Create a comprehensive recap for game %[1]d.

STEP 1: BASIC GAME INFORMATION
1. get_boxscore(%[1]d) - final score, basic stats, and game summary
2. get_schedule() - surrounding series context

STEP 2: KEY PLAYER PERFORMANCES
Identify standout hitting and pitching performances from the boxscore and
highlight clutch moments and game-changing plays.

STEP 3: GENERATE THE HTML GAME RECAP
Produce a complete HTML document inside an `+"```html"+` fenced block including:
- Game summary header with the final score
- Inning-by-inning scoring summary
- Key player stat lines
- Turning-point analysis
- Post-game implications (standings, playoff picture)

Structure the recap like a professional sports article with data-driven insights.`, gameID)
}

// StatisticalDeepDive builds the prompt for a league-wide statistical analysis.
// season 0 means the current season.
func StatisticalDeepDive(statCategory string, season int) string {
	return fmt.Sprintf(`Create a comprehensive statistical deep dive analysis for %[1]s in %[2]s.

STEP 1: GATHER LEAGUE-WIDE DATA
1. Use get_stats() and get_team_leaders() to collect league leaders for "%[1]s"
2. Use get_standings() for team-level context

STEP 2: IDENTIFY KEY INSIGHTS
- Current leaders and their performance levels
- Historical context: how does this season compare?
- Team-by-team breakdowns, notable trends or surprises

STEP 3: GENERATE THE REPORT
Produce a complete HTML document inside an `+"```html"+` fenced block with:
- Executive summary of key findings
- Top-10 leaderboard with context
- Team rankings and analysis
- Predictions and trends to watch

Make it suitable for both casual fans and serious analysts.`, statCategory, seasonText(season))
}

// DefaultSystem is the system prompt used when a request carries none.
const DefaultSystem = "You are a baseball analytics assistant. Use the available tools to gather real data before writing. Always deliver your final answer as a complete HTML document inside an ```html fenced block."
