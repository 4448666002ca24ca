// Package images supplies fallback product artwork for callers that display
// products. Stores never substitute an image; only presentation code does.
package images

import "math/rand/v2"

// Defaults are royalty-free coffee photos.
var Defaults = []string{
	"https://images.pexels.com/photos/302899/pexels-photo-302899.jpeg",
	"https://images.pexels.com/photos/312418/pexels-photo-312418.jpeg",
	"https://images.pexels.com/photos/374757/pexels-photo-374757.jpeg",
	"https://images.pexels.com/photos/1695052/pexels-photo-1695052.jpeg",
	"https://images.pexels.com/photos/324028/pexels-photo-324028.jpeg",
	"https://images.pexels.com/photos/585753/pexels-photo-585753.jpeg",
	"https://images.pexels.com/photos/683039/pexels-photo-683039.jpeg",
	"https://images.pexels.com/photos/894695/pexels-photo-894695.jpeg",
}

// Random returns one of Defaults chosen uniformly.
func Random() string {
	return Defaults[rand.IntN(len(Defaults))]
}

// OrDefault returns url unless it is empty, in which case it returns a
// random default.
func OrDefault(url string) string {
	if url != "" {
		return url
	}
	return Random()
}
