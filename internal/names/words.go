package names

// Order matters: adjective, color, animal.
var dictionaries = [][]string{adjectives, colors, animals}

var adjectives = []string{
	"able", "acid", "adorable", "aggressive", "agreeable", "alert", "ancient",
	"angry", "anxious", "awful", "bad", "bitter", "bizarre", "blushing",
	"boring", "brave", "breezy", "brief", "bright", "broad", "busy", "calm",
	"careful", "cautious", "charming", "cheap", "cheerful", "chilly", "clever",
	"close", "cold", "colossal", "comfortable", "cool", "crazy", "crooked",
	"cruel", "curious", "cute", "damp", "dark", "decent", "deep", "delicate",
	"delightful", "dizzy", "dry", "eager", "early", "easy", "elegant",
	"empty", "endless", "enormous", "exciting", "faint", "fair", "famous",
	"fancy", "fast", "fierce", "flat", "fresh", "friendly", "funny", "gentle",
	"giant", "glad", "glorious", "good", "graceful", "grumpy", "handsome",
	"happy", "hollow", "honest", "huge", "hungry", "icy", "immense",
	"innocent", "jolly", "juicy", "kind", "large", "lazy", "little",
	"lively", "lonely", "loud", "lucky", "magnificent", "mighty", "modern",
	"narrow", "nervous", "nice", "noisy", "odd", "old", "patient", "perfect",
	"plain", "polite", "proud", "quick", "quiet", "rapid", "rare", "rich",
	"round", "sad", "scary", "shy", "silent", "silly", "slow", "small",
	"smart", "smooth", "soft", "sparkling", "steep", "strange", "strong",
	"sweet", "swift", "tall", "tame", "tender", "thirsty", "tiny", "tough",
	"tricky", "uneven", "useful", "vast", "warm", "weak", "wet", "wild",
	"wise", "witty", "worried", "young", "zany", "zealous",
}

var colors = []string{
	"amaranth", "amber", "amethyst", "apricot", "aqua", "aquamarine",
	"azure", "beige", "black", "blue", "blush", "bronze", "brown",
	"burgundy", "cerulean", "champagne", "chartreuse", "chocolate",
	"cobalt", "coffee", "copper", "coral", "crimson", "cyan", "emerald",
	"fuchsia", "gold", "gray", "green", "harlequin", "indigo", "ivory",
	"jade", "lavender", "lime", "magenta", "maroon", "moccasin", "olive",
	"orange", "orchid", "peach", "pink", "plum", "purple", "red", "rose",
	"ruby", "salmon", "sapphire", "scarlet", "silver", "tan", "teal",
	"tomato", "turquoise", "violet", "white", "yellow",
}

var animals = []string{
	"aardvark", "albatross", "alligator", "alpaca", "ant", "anteater",
	"antelope", "armadillo", "baboon", "badger", "barracuda", "bat", "bear",
	"beaver", "bee", "bison", "boar", "buffalo", "butterfly", "camel",
	"capybara", "caribou", "cat", "caterpillar", "cheetah", "chicken",
	"chimpanzee", "chinchilla", "cobra", "cod", "condor", "cormorant",
	"coyote", "crab", "crane", "crocodile", "crow", "deer", "dinosaur",
	"dog", "dolphin", "donkey", "dove", "dragonfly", "duck", "eagle", "eel",
	"elephant", "elk", "emu", "falcon", "ferret", "finch", "flamingo", "fox",
	"frog", "gazelle", "gecko", "gerbil", "giraffe", "gnu", "goat", "goose",
	"gorilla", "grasshopper", "hamster", "hare", "hawk", "hedgehog",
	"heron", "hippopotamus", "hornet", "horse", "hyena", "ibex", "iguana",
	"jackal", "jaguar", "jellyfish", "kangaroo", "koala", "lemur",
	"leopard", "lion", "llama", "lobster", "lynx", "macaw", "meerkat",
	"mole", "mongoose", "moose", "mouse", "narwhal", "newt", "octopus",
	"opossum", "ostrich", "otter", "owl", "panda", "panther", "parrot",
	"peacock", "pelican", "penguin", "pigeon", "porcupine", "quail",
	"rabbit", "raccoon", "raven", "reindeer", "rhinoceros", "salamander",
	"seahorse", "seal", "shark", "sheep", "skunk", "sloth", "snail",
	"sparrow", "squid", "squirrel", "starfish", "swan", "tapir", "tiger",
	"toucan", "turtle", "walrus", "weasel", "whale", "wolf", "wombat",
	"yak", "zebra",
}
