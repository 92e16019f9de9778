package catalog

// defaultServices is the studio's standard menu.
var defaultServices = []Service{
	{ID: "w1", Name: "Hair Cut", Category: "women", DurationMinutes: 30, Price: "Starts from $20"},
	{ID: "w2", Name: "Wash & Blow Dry", Category: "women", DurationMinutes: 30, Price: "Starts from $35"},
	{ID: "w3", Name: "Hair Cut, Wash & Blow-Dry", Category: "women", DurationMinutes: 60, Price: "Starts from $35"},
	{ID: "w4", Name: "Hair Cut, Wash & Style", Category: "women", DurationMinutes: 60, Price: "Starts from $35"},
	{ID: "w5", Name: "Bang Trim", Category: "women", DurationMinutes: 15, Price: "$10"},
	{ID: "w6", Name: "Kids Hair Cut", Category: "women", DurationMinutes: 30, Price: "$18"},

	{ID: "m1", Name: "Hair Cut", Category: "men", DurationMinutes: 30, Price: "Starts from $20"},
	{ID: "m2", Name: "Hair & Fade", Category: "men", DurationMinutes: 30, Price: "Starts from $25"},
	{ID: "m3", Name: "Beard Trim", Category: "men", DurationMinutes: 30, Price: "$10"},
	{ID: "m4", Name: "Kids Hair Cut", Category: "men", DurationMinutes: 30, Price: "$18"},
	{ID: "m5", Name: "Wash & Hair Cut", Category: "men", DurationMinutes: 30, Price: "Starts from $35"},

	{ID: "a1", Name: "Waxing - Eyebrows", Category: "aesthetic", DurationMinutes: 15, Price: "$10"},
	{ID: "a2", Name: "Waxing - Upper Lip", Category: "aesthetic", DurationMinutes: 15, Price: "$5"},
	{ID: "a3", Name: "Waxing - Chin", Category: "aesthetic", DurationMinutes: 15, Price: "$7"},
	{ID: "a4", Name: "Waxing - Half Arm", Category: "aesthetic", DurationMinutes: 15, Price: "$10"},
	{ID: "a5", Name: "Waxing - Full Arm", Category: "aesthetic", DurationMinutes: 15, Price: "$20"},
}

// Default returns the built-in catalog.
func Default() *Registry {
	r, err := New(defaultServices)
	if err != nil {
		panic(err)
	}
	return r
}
