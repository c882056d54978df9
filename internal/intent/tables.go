package intent

import "github.com/cesargomez89/vibefinder/internal/domain"

// Category is a named set of trigger substrings. Keyword order matters only
// for readability; category order decides ties.
type Category struct {
	Name     string
	Keywords []string
}

// Table is an ordered list of categories scanned first-match-wins.
type Table []Category

// Tables groups every keyword table a Parser needs.
type Tables struct {
	Environment Table
	Speed       Table
	Vibe        Table
	Genre       Table

	// Negative and Positive decide valence from the detected vibe.
	Negative []string
	Positive []string

	// DefaultVibe is used when the input has no usable first token.
	DefaultVibe string
}

// DefaultTables returns the base keyword tables shared by every provider.
func DefaultTables() Tables {
	return Tables{
		Environment: Table{
			{Name: "gym", Keywords: []string{"gym", "workout", "exercise", "lifting", "running", "cardio", "training"}},
			{Name: "study", Keywords: []string{"study", "studying", "focus", "homework", "concentrat", "reading", "work"}},
			{Name: "party", Keywords: []string{"party", "club", "dance", "celebrat", "rave", "festival"}},
			{Name: "sleep", Keywords: []string{"sleep", "bedtime", "nap", "insomnia", "dream"}},
			{Name: "drive", Keywords: []string{"drive", "driving", "road trip", "roadtrip", "car", "highway", "cruise"}},
			{Name: "cafe", Keywords: []string{"cafe", "coffee", "coffeeshop", "brunch", "bakery"}},
			{Name: "rain", Keywords: []string{"rain", "rainy", "storm", "thunder"}},
			{Name: "night", Keywords: []string{"night", "midnight", "late", "3am", "after hours"}},
		},
		Speed: Table{
			{Name: string(domain.SpeedFast), Keywords: []string{"fast", "upbeat", "energetic", "hype", "intense", "pump", "quick", "banger"}},
			{Name: string(domain.SpeedSlow), Keywords: []string{"slow", "calm", "relax", "chill", "mellow", "soft", "gentle", "peaceful", "ambient"}},
			{Name: string(domain.SpeedMedium), Keywords: []string{"medium", "moderate", "groovy", "steady", "mid"}},
		},
		Vibe: Table{
			{Name: "energetic", Keywords: []string{"energetic", "energy", "hype", "pump", "power"}},
			{Name: "happy", Keywords: []string{"happy", "joy", "cheerful", "sunny", "bright", "uplifting", "feel good"}},
			{Name: "sad", Keywords: []string{"sad", "cry", "heartbreak", "lonely", "melancholy", "depress", "blue"}},
			{Name: "dark", Keywords: []string{"dark", "moody", "gloomy", "sinister", "gothic", "eerie"}},
			{Name: "romantic", Keywords: []string{"romantic", "love", "date night", "sensual"}},
			{Name: "chill", Keywords: []string{"chill", "relax", "calm", "laid back", "lofi", "lo-fi", "cozy"}},
			{Name: "aggressive", Keywords: []string{"aggressive", "angry", "rage", "heavy"}},
			{Name: "nostalgic", Keywords: []string{"nostalgic", "nostalgia", "retro", "throwback", "vintage"}},
			{Name: "dreamy", Keywords: []string{"dreamy", "ethereal", "floaty", "hazy"}},
			{Name: "night", Keywords: []string{"night", "midnight", "nocturnal", "3am", "late night"}},
		},
		Genre: Table{
			{Name: "lofi", Keywords: []string{"lofi", "lo-fi", "lo fi"}},
			{Name: "hip hop", Keywords: []string{"hip hop", "hiphop", "rap", "trap"}},
			{Name: "electronic", Keywords: []string{"edm", "electronic", "house", "techno", "trance", "dubstep", "synthwave"}},
			{Name: "rock", Keywords: []string{"rock", "punk", "grunge", "metal"}},
			{Name: "jazz", Keywords: []string{"jazz", "bebop", "swing"}},
			{Name: "classical", Keywords: []string{"classical", "orchestra", "piano", "symphony"}},
			{Name: "pop", Keywords: []string{"pop", "k-pop", "kpop"}},
			{Name: "r&b", Keywords: []string{"r&b", "rnb", "soul"}},
			{Name: "indie", Keywords: []string{"indie", "alternative"}},
			{Name: "acoustic", Keywords: []string{"acoustic", "folk", "unplugged"}},
			{Name: "latin", Keywords: []string{"reggaeton", "latin", "salsa", "bachata"}},
		},
		Negative:    []string{"sad", "dark", "aggressive", "melancholy", "angry", "lonely"},
		Positive:    []string{"happy", "energetic", "romantic", "uplifting", "cheerful"},
		DefaultVibe: "chill",
	}
}

// YouTubeTables extends the defaults with video-platform phrasing such as
// anime openings and "aesthetic" edits.
func YouTubeTables() Tables {
	t := DefaultTables()
	t.Genre = append(Table{
		{Name: "anime", Keywords: []string{"anime", "opening", "ending", "ost", "japanese"}},
	}, t.Genre...)
	t.Vibe = append(t.Vibe, Category{Name: "aesthetic", Keywords: []string{"aesthetic", "vibes", "vaporwave"}})
	t.Positive = append(t.Positive, "aesthetic")
	return t
}

// SoundCloudTables favours underground and producer vocabulary.
func SoundCloudTables() Tables {
	t := DefaultTables()
	t.Genre = append(t.Genre,
		Category{Name: "phonk", Keywords: []string{"phonk", "drift"}},
		Category{Name: "drum and bass", Keywords: []string{"dnb", "drum and bass", "jungle"}},
	)
	t.Environment = append(t.Environment, Category{Name: "studio", Keywords: []string{"studio", "producer", "beat making"}})
	return t
}

// SpotifyTables treats "dreamy" as positive and maps mood playlists more
// conservatively than the video catalog.
func SpotifyTables() Tables {
	t := DefaultTables()
	t.Positive = append(t.Positive, "dreamy", "chill")
	t.Negative = append(t.Negative, "nostalgic")
	return t
}
