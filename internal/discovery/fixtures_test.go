package discovery

import (
	"fmt"
	"hash/fnv"
	"time"
)

// Seedable fixture generator. Profiles are derived deterministically from the
// id and seed so tests can assert on exact outputs.

var fixtureInterestPool = []string{
	"travel", "music", "fitness", "food", "movies", "reading",
	"hiking", "photography", "cooking", "art", "gaming", "dancing",
	"sports", "books", "theater", "concerts",
}

func fixtureHash(id string, seed uint64) uint64 {
	h := fnv.New64a()
	h.Write([]byte(id))
	h.Write([]byte(fmt.Sprintf("%d", seed)))
	return h.Sum64()
}

// fixtureProfile derives a complete profile from (id, seed).
func fixtureProfile(id string, seed uint64) Profile {
	h := fixtureHash(id, seed)

	interestCount := int(h%4) + 2
	interests := make([]string, 0, interestCount)
	for i := 0; i < interestCount; i++ {
		interests = append(interests, fixtureInterestPool[(h+uint64(i*7))%uint64(len(fixtureInterestPool))])
	}

	photoCount := int(h % 6)
	photos := make([]string, 0, photoCount)
	for i := 0; i < photoCount; i++ {
		photos = append(photos, fmt.Sprintf("https://cdn.example.com/%s/%d.jpg", id, i))
	}

	return Profile{
		ID:          id,
		DisplayName: "User " + id,
		Age:         18 + int(h%30),
		Gender:      []Gender{GenderMale, GenderFemale, GenderNonBinary}[h%3],
		Location: &Coordinates{
			Latitude:  40 + float64(h%100)/100,
			Longitude: -74 + float64(h%100)/100,
		},
		Photos:     photos,
		Interests:  interests,
		Verified:   h%2 == 0,
		Premium:    h%5 == 0,
		LastActive: time.Now().Add(-time.Duration(h%72) * time.Hour),
	}
}

// fixturePool generates n distinct deterministic profiles.
func fixturePool(n int, seed uint64) []Profile {
	pool := make([]Profile, 0, n)
	for i := 0; i < n; i++ {
		pool = append(pool, fixtureProfile(fmt.Sprintf("cand-%d", i), seed))
	}
	return pool
}

// Handcrafted builders for assertions that need exact attribute control.

func testProfile(id string, age int, interests ...string) Profile {
	return Profile{
		ID:          id,
		DisplayName: "User " + id,
		Age:         age,
		Gender:      GenderFemale,
		Location:    &Coordinates{Latitude: 40.7128, Longitude: -74.0060},
		Interests:   interests,
		LastActive:  time.Now().Add(-time.Hour),
	}
}

func testCriteria() *PreferenceCriteria {
	c := DefaultCriteria()
	c.MinAge = 18
	c.MaxAge = 99
	c.MaxDistanceKm = 100
	return c
}

// offsetLocation returns a point roughly km kilometers east of the base.
func offsetLocation(base Coordinates, km float64) *Coordinates {
	// 1 degree of longitude at ~40N is about 85 km.
	return &Coordinates{Latitude: base.Latitude, Longitude: base.Longitude + km/85}
}
