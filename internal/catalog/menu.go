package catalog

// DefaultMenu returns the cafe's standing menu.
func DefaultMenu() []Product {
	return []Product{
		{ID: "espresso", Name: "Espresso", Description: "Double shot of our house blend", Price: 2.20, Category: "drinks", Tags: []string{"coffee", "hot"}},
		{ID: "flat-white", Name: "Flat White", Description: "Silky steamed milk over a double ristretto", Price: 3.20, Category: "drinks", Tags: []string{"coffee", "hot", "milk"}},
		{ID: "latte", Name: "Caffe Latte", Description: "Espresso with steamed milk and a thin layer of foam", Price: 3.50, Category: "drinks", Tags: []string{"coffee", "hot", "milk"}},
		{ID: "english-breakfast-tea", Name: "English Breakfast Tea", Description: "Classic black tea, served with milk on the side", Price: 2.50, Category: "drinks", Tags: []string{"tea", "hot"}},
		{ID: "fresh-orange-juice", Name: "Fresh Orange Juice", Description: "Squeezed to order", Price: 3.00, Category: "drinks", Tags: []string{"cold", "juice"}},
		{ID: "soup-of-the-day", Name: "Soup of the Day", Description: "Served with warm sourdough and butter", Price: 5.50, Category: "starters", Tags: []string{"vegetarian"}},
		{ID: "halloumi-fries", Name: "Halloumi Fries", Description: "Crispy halloumi with sweet chilli dip", Price: 6.00, Category: "starters", Tags: []string{"vegetarian", "sharing"}},
		{ID: "full-english", Name: "Full English Breakfast", Description: "Two eggs, bacon, sausage, beans, mushrooms, toast", Price: 10.50, Category: "mains", Tags: []string{"breakfast"}},
		{ID: "avocado-toast", Name: "Avocado on Toast", Description: "Smashed avocado, poached egg, chilli flakes on sourdough", Price: 8.00, Category: "mains", Tags: []string{"breakfast", "vegetarian"}},
		{ID: "club-sandwich", Name: "Club Sandwich", Description: "Chicken, bacon, lettuce, tomato, triple-stacked", Price: 9.00, Category: "mains", Tags: []string{"lunch"}},
		{ID: "caesar-salad", Name: "Chicken Caesar Salad", Description: "Grilled chicken, romaine, parmesan, house dressing", Price: 9.50, Category: "mains", Tags: []string{"lunch", "salad"}},
		{ID: "fruit-scone", Name: "Fruit Scone", Description: "With clotted cream and strawberry jam", Price: 3.80, Category: "desserts", Tags: []string{"baked", "sweet"}},
		{ID: "victoria-sponge", Name: "Victoria Sponge", Description: "Classic layered sponge with cream and jam", Price: 4.20, Category: "desserts", Tags: []string{"cake", "sweet"}},
		{ID: "chocolate-brownie", Name: "Chocolate Brownie", Description: "Warm, with vanilla ice cream", Price: 4.50, Category: "desserts", Tags: []string{"chocolate", "sweet"}},
	}
}
