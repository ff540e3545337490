package dashboard

import "github.com/yourusername/sharpboard/internal/models"

func num(v float64) *float64 { return &v }

func str(s string) *string { return &s }

// demoRows is the built-in board used when no backend is available.
var demoRows = []models.RawMarketRow{
	{
		Sport: str("NCAAB"), Start: str("02/18, 10:18 PM"), Matchup: str("KANSAS @ BAYLOR"),
		Market: str("ML"), Line: str("KANSAS"), Book: str("DraftKings"),
		Odds: num(-135), Edge: num(3.12), SignalScore: num(72), SignalLabel: "SHARP WATCH",
		SteamDetected: true,
	},
	{
		Sport: str("NBA"), Start: str("02/18, 8:57 PM"), Matchup: str("BOS @ MIA"),
		Market: str("SPREAD"), Line: str("BOS -2.5"), Book: str("Circa"),
		Odds: num(-110), Edge: num(1.42), SignalScore: num(19), SignalLabel: "NOISE",
	},
	{
		Sport: str("NFL"), Start: str("02/18, 10:37 PM"), Matchup: str("KC @ CIN"),
		Market: str("TOTAL"), Line: str("O 47.5"), Book: str("FanDuel"),
		Odds: num(-108), Edge: num(1.61), SignalScore: num(55), SignalLabel: "INTEREST",
		SteamDetected: true,
	},
}
