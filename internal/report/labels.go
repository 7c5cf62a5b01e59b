package report

// readableNames maps stat keys sent by the scoring service to display labels.
var readableNames = map[string]string{
	"player_name":             "Player name",
	"score":                   "Score",
	"competition":             "Competition",
	"date":                    "Match date",
	"match":                   "Match",
	"team":                    "Team",
	"pos":                     "Position",
	"pos_role":                "Specific position",
	"player":                  "Player",
	"rater":                   "Rater",
	"is_human":                "Human rater",
	"original_rating":         "Rating",
	"goals":                   "Goals",
	"assists":                 "Assists",
	"shots_ontarget":          "Shots on target",
	"shots_offtarget":         "Shots off target",
	"shotsblocked":            "Shots blocked",
	"shots_offtarget_blocked": "Off-target shots blocked",
	"chances2score":           "Scoring chances",
	"drib_success":            "Successful dribbles",
	"drib_unsuccess":          "Failed dribbles",
	"keypasses":               "Key passes",
	"touches":                 "Touches",
	"passes_acc":              "Accurate passes",
	"passes_inacc":            "Inaccurate passes",
	"crosses_acc":             "Accurate crosses",
	"crosses_inacc":           "Inaccurate crosses",
	"lballs_acc":              "Accurate long balls",
	"lballs_inacc":            "Inaccurate long balls",
	"grduels_w":               "Ground duels won",
	"grduels_l":               "Ground duels lost",
	"aerials_w":               "Aerial duels won",
	"aerials_l":               "Aerial duels lost",
	"duelos_ganados":          "Duels won",
	"poss_lost":               "Possession lost",
	"fouls":                   "Fouls committed",
	"wasfouled":               "Fouls suffered",
	"clearances":              "Clearances",
	"stop_shots":              "Shots stopped",
	"interceptions":           "Interceptions",
	"tackles":                 "Tackles",
	"dribbled_past":           "Dribbled past",
	"tballs_acc":              "Accurate through balls",
	"tballs_inacc":            "Inaccurate through balls",
	"ycards":                  "Yellow cards",
	"rcards":                  "Red card",
	"dangmistakes":            "Dangerous mistakes",
	"countattack":             "Counter attacks started",
	"offsides":                "Offsides",
	"goals_ag_otb":            "Goals conceded outside the box",
	"goals_ag_itb":            "Goals conceded inside the box",
	"saves_itb":               "Saves inside the box",
	"saves_otb":               "Saves outside the box",
	"saved_pen":               "Penalties saved",
	"missed_penalties":        "Penalties missed",
	"owngoals":                "Own goals",
	"degree_centrality":       "Degree centrality",
	"betweenness_centrality":  "Betweenness centrality",
	"closeness_centrality":    "Closeness centrality",
	"flow_centrality":         "Flow centrality",
	"flow_success":            "Flow success",
	"betweenness2goals":       "Betweenness to goals",
	"win":                     "Win",
	"lost":                    "Loss",
	"result":                  "Result",
	"is_home_team":            "Home team",
	"minutesPlayed":           "Minutes played",
	"game_duration":           "Match duration",
}

// Label returns the display label for a stat key, or the key itself.
func Label(key string) string {
	if l, ok := readableNames[key]; ok {
		return l
	}
	return key
}
