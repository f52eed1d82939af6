package menu

// defaultItems is the Ali Doner Aktau menu, prices in tenge
var defaultItems = []Item{
	{Name: "Doner Classic 30 см", Price: 1790, Aliases: []string{"донер классик 30 см", "донер классический 30 см"}},
	{Name: "Doner Classic 40 см", Price: 1990, Aliases: []string{"донер классик 40 см", "донер классический 40 см"}},
	{Name: "Doner Beef 30 см", Price: 2090, Aliases: []string{"донер биф 30 см", "донер говядина 30 см"}},
	{Name: "Doner Beef 40 см", Price: 2290, Aliases: []string{"донер биф 40 см", "донер говядина 40 см"}},
	{Name: "Panini Classic", Price: 1890, Aliases: []string{"панини классик"}},
	{Name: "Panini Beef", Price: 2190, Aliases: []string{"панини биф"}},
	{Name: "HOT-DOG", Price: 890, Aliases: []string{"хот-дог", "хотдог"}},
	{Name: "BIG HOT-DOG", Price: 1090, Aliases: []string{"биг хот-дог", "большой хот-дог"}},
	{Name: "Фри", Price: 890, Aliases: []string{"fries", "картошка фри"}},
	{Name: "Наггетсы", Price: 990, Aliases: []string{"nuggets", "наггетс"}},
	{Name: "Coca Cola 0.5L", Price: 590, Aliases: []string{"кола 0.5", "кока кола 0.5"}},
	{Name: "Coca Cola 1L", Price: 890, Aliases: []string{"кола 1 л", "кока кола 1 л"}},
	{Name: "Fuse Tea 0.5L", Price: 690, Aliases: []string{"фьюз ти", "fuse tea"}},
}

// Default returns the built-in menu
func Default() *Catalog {
	c, err := New(defaultItems)
	if err != nil {
		panic(err)
	}
	return c
}
