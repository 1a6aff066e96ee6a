package category

// builtinCategories is the stock habit taxonomy used when no taxonomy file is
// configured. Keywords are lowercase substrings matched anywhere in a
// transaction description; some noise is accepted on purpose since merchant
// strings run words together ("STARBUCKSSTORE05977").
var builtinCategories = []Category{
	{
		Name: "alcohol",
		Keywords: []string{
			"liquor", "wine", "beer", "brewer", "vodka", "whiskey", "whisky",
			"tequila", "spirits", "distillery", "taproom", "tavern", "pub",
			"saloon", "bevmo", "bottle shop",
		},
	},
	{
		Name: "tobacco",
		Keywords: []string{
			"tobacco", "smoke", "cigar", "cigarette", "vape", "vapor", "juul",
			"marlboro", "nicotine",
		},
	},
	{
		Name: "cannabis",
		Keywords: []string{
			"dispensary", "cannabis", "marijuana", "weed", "cbd", "420",
		},
	},
	{
		Name: "coffee",
		Keywords: []string{
			"starbucks", "coffee", "espresso", "dunkin", "peets", "caffe",
			"cafe", "roaster", "latte",
		},
	},
	{
		Name: "fastfood",
		Keywords: []string{
			"mcdonald", "burger", "wendy", "taco bell", "kfc", "chick-fil-a",
			"chipotle", "pizza", "domino", "popeyes", "sonic drive",
			"doordash", "grubhub", "uber eats", "postmates", "jack in the box",
		},
	},
	{
		Name: "gambling",
		Keywords: []string{
			"casino", "poker", "lottery", "lotto", "draftkings", "fanduel",
			"betmgm", "sportsbook", "wager", "slots",
		},
	},
	{
		Name: "subscriptions",
		Keywords: []string{
			"netflix", "spotify", "hulu", "disney", "hbo", "paramount",
			"peacock", "crunchyroll", "audible", "twitch", "patreon",
			"youtube premium",
		},
	},
}
