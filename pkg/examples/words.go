package examples

// DefaultWords is a small vocabulary for the dictionary resolver. It is
// used by the interactive search command and by tests that need a
// realistic corpus without external files.
var DefaultWords = []string{
	"abandon", "ability", "absolute", "abstract", "academy",
	"accept", "account", "achieve", "acoustic", "acquire",
	"activate", "adapter", "address", "advance", "adventure",
	"aerial", "agenda", "airport", "alchemy", "algorithm",
	"alliance", "almond", "already", "although", "altitude",
	"amber", "ambient", "analysis", "anchor", "ancient",
	"animal", "announce", "antenna", "anybody", "apparent",
	"approve", "arcade", "archive", "argument", "arrival",
	"artifact", "assemble", "asterisk", "athlete", "atmosphere",
	"attempt", "attract", "auction", "autumn", "avenue",
	"backbone", "balance", "balloon", "bargain", "barrier",
	"battery", "beacon", "bedrock", "believe", "benefit",
	"bicycle", "billiard", "biology", "blanket", "blossom",
	"border", "botanic", "boulder", "breeze", "brilliant",
	"broccoli", "browser", "buffalo", "builder", "bundle",
	"cabinet", "calendar", "camera", "campaign", "candle",
	"canvas", "capital", "capture", "caravan", "carbon",
	"cascade", "castle", "catalyst", "cathedral", "ceiling",
	"cellar", "century", "ceramic", "certain", "channel",
	"chapter", "charcoal", "chemistry", "chimney", "chorus",
	"cinnamon", "circuit", "citizen", "clarity", "climate",
	"cluster", "coastal", "cobalt", "collapse", "comet",
	"compass", "compose", "concert", "conduct", "confetti",
	"console", "contour", "copper", "coral", "cottage",
	"courage", "crystal", "curtain", "cypress", "dashboard",
	"daylight", "decade", "delta", "density", "deposit",
	"desert", "diagram", "diamond", "dolphin", "domain",
	"drift", "dynamo", "eclipse", "element", "ember",
	"emerald", "engine", "episode", "equator", "ethereal",
	"fabric", "falcon", "feather", "festival", "filament",
	"firefly", "fjord", "flannel", "fortress", "fountain",
	"galaxy", "garden", "garnet", "geyser", "glacier",
	"granite", "gravity", "harbor", "harvest", "horizon",
	"indigo", "island", "jasmine", "jigsaw", "journey",
	"juniper", "kaleidoscope", "kernel", "lagoon", "lantern",
	"lattice", "lavender", "library", "lighthouse", "linen",
	"machine", "magnet", "mahogany", "mantle", "marble",
	"meadow", "meridian", "meteor", "midnight", "mineral",
	"mirror", "module", "monsoon", "mosaic", "mountain",
	"nebula", "nectar", "network", "nocturne", "north",
	"oasis", "obsidian", "ocean", "orbit", "orchard",
	"orchid", "outpost", "oxide", "pastel", "pattern",
	"pebble", "pendulum", "penguin", "pepper", "perennial",
	"phantom", "pigment", "pinnacle", "pioneer", "plateau",
	"polaris", "prairie", "prism", "pulsar", "quartz",
	"quasar", "quiet", "radiant", "rainfall", "raven",
	"reactor", "redwood", "reservoir", "resolve", "ribbon",
	"river", "saffron", "sandstone", "sapphire", "satellite",
	"seashell", "sequence", "shadow", "signal", "silver",
	"sketch", "solstice", "spectrum", "spiral", "starling",
	"stream", "summit", "sunrise", "tangent", "tapestry",
	"telescope", "temple", "terrace", "thunder", "tidal",
	"timber", "topaz", "tornado", "tranquil", "traverse",
	"trellis", "tundra", "turbine", "twilight", "umbrella",
	"valley", "vapor", "velvet", "vertex", "violet",
	"vortex", "voyage", "walnut", "waterfall", "whisper",
	"willow", "window", "winter", "wonder", "zenith",
	"zephyr", "zeppelin", "zigzag", "zinc", "zodiac",
}
