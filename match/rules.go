package match

func above(ch Channel, v float64) Condition {
	return Condition{Left: ch, Op: GT, Right: Term{Offset: v}}
}

func below(ch Channel, v float64) Condition {
	return Condition{Left: ch, Op: LT, Right: Term{Offset: v}}
}

// exceeds is ch > other*scale + offset
func exceeds(ch, other Channel, scale, offset float64) Condition {
	return Condition{Left: ch, Op: GT, Right: Term{Channel: other, Scale: scale, Offset: offset}}
}

// near is |a - b| < v
func near(a, b Channel, v float64) Condition {
	return Condition{Left: a, Minus: b, Abs: true, Op: LT, Right: Term{Offset: v}}
}

func with(base []Condition, more ...Condition) []Condition {
	out := make([]Condition, 0, len(base)+len(more))
	out = append(out, base...)
	return append(out, more...)
}

// DefaultRules is the built-in terrain table for overworld tilesets. Tile
// indices address a 16 column world sheet; grass is the fallback.
func DefaultRules() RuleSet {
	water := []Condition{above(Blue, 120), exceeds(Blue, Red, 1, 30), exceeds(Blue, Green, 1, 20)}
	grass := []Condition{above(Green, 80), exceeds(Green, Red, 1.1, 0), exceeds(Green, Blue, 1.1, 0)}
	reddish := []Condition{above(Red, 130), exceeds(Red, Green, 1.2, 0)}
	earth := []Condition{above(Red, 80), above(Green, 60), below(Blue, 80)}

	return RuleSet{
		Rules: []Rule{
			{Name: "water", Terrain: "water", Tile: 253, Swatch: "#3c78d8", When: with(water, above(Brightness, 120))},
			{Name: "deep-water", Terrain: "water", Tile: 250, Swatch: "#1c4587", When: water},
			{Name: "snow", Terrain: "snow", Tile: 3, Swatch: "#f3f3f3", When: []Condition{above(Red, 200), above(Green, 200), above(Blue, 200)}},
			{Name: "pale-snow", Terrain: "snow", Tile: 3, Swatch: "#d9d9d9", When: []Condition{above(Brightness, 180), near(Red, Green, 20), near(Green, Blue, 20)}},
			{Name: "bright-grass", Terrain: "grass", Tile: 1, Swatch: "#6aa84f", When: with(grass, above(Green, 120))},
			{Name: "dense-grass", Terrain: "forest", Tile: 61, Swatch: "#274e13", When: with(grass, below(Red, 60))},
			{Name: "grass", Terrain: "grass", Tile: 1, Swatch: "#6aa84f", When: grass},
			{Name: "red-desert", Terrain: "desert", Tile: 177, Swatch: "#cc4125", When: with(reddish, above(Red, 180), below(Green, 120))},
			{Name: "dark-rock", Terrain: "rock", Tile: 193, Swatch: "#434343", When: with(reddish, below(Brightness, 100))},
			{Name: "desert", Terrain: "desert", Tile: 176, Swatch: "#e69138", When: reddish},
			{Name: "light-earth", Terrain: "dirt", Tile: 25, Swatch: "#b45f06", When: with(earth, above(Brightness, 120))},
			{Name: "earth", Terrain: "dirt", Tile: 48, Swatch: "#783f04", When: earth},
			{Name: "sand", Terrain: "sand", Tile: 46, Swatch: "#f1c232", When: []Condition{above(Red, 140), above(Green, 120), below(Blue, 100)}},
			{Name: "forest", Terrain: "forest", Tile: 154, Swatch: "#38761d", When: []Condition{above(Green, 60), above(Red, 40), below(Brightness, 100)}},
			{Name: "rock", Terrain: "rock", Tile: 193, Swatch: "#434343", When: []Condition{below(Brightness, 60)}},
		},
		Default: Rule{Name: "default", Terrain: "grass", Tile: 1, Swatch: "#6aa84f"},
	}
}
