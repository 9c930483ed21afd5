package directory

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/five82/roster/internal/randomuser"
)

var (
	femaleFirst = []string{"Ana", "Beatrice", "Chloe", "Daniela", "Emma", "Freya", "Grace", "Hanna", "Ines", "Julia", "Katarina", "Lea", "Maja", "Nora", "Olivia", "Paula", "Rosa", "Sofia", "Tilda", "Vera"}
	maleFirst   = []string{"Aaron", "Bruno", "Carlos", "David", "Elias", "Felix", "Gustav", "Hugo", "Ivan", "John", "Karl", "Luca", "Marco", "Noah", "Oscar", "Pedro", "Rafael", "Samuel", "Theo", "Victor"}
	lastNames   = []string{"Andersen", "Bakker", "Costa", "Dubois", "Eriksen", "Fischer", "Garcia", "Hansen", "Ivanova", "Jensen", "Kowalski", "Lopez", "Martin", "Nielsen", "Olsen", "Petrov", "Rossi", "Smithson", "Tanaka", "Weber"}
	nats        = []string{"AU", "BR", "CA", "CH", "DE", "DK", "ES", "FI", "FR", "GB", "IE", "IN", "MX", "NL", "NO", "NZ", "TR", "US"}
)

var (
	seedEpoch = time.Date(2002, 1, 1, 0, 0, 0, 0, time.UTC)
	seedNow   = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
)

// Generate returns n synthetic users. The same seed always yields the same
// users, including their uuids.
func Generate(seed string, n int) []randomuser.User {
	if n <= 0 {
		return nil
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(seed))
	sum := h.Sum64()
	rng := rand.New(rand.NewPCG(sum, sum^0x9e3779b97f4a7c15))

	users := make([]randomuser.User, 0, n)
	for i := 0; i < n; i++ {
		gender, first, title, folder := "female", femaleFirst[rng.IntN(len(femaleFirst))], "Ms", "women"
		if rng.IntN(2) == 0 {
			gender, first, title, folder = "male", maleFirst[rng.IntN(len(maleFirst))], "Mr", "men"
		}
		last := lastNames[rng.IntN(len(lastNames))]
		id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s:%d", seed, i)))
		username := strings.ToLower(first) + strings.ToLower(last[:3]) + fmt.Sprint(rng.IntN(1000))
		registered := seedEpoch.Add(time.Duration(rng.Int64N(int64(20 * 365 * 24 * time.Hour))))

		users = append(users, randomuser.User{
			Gender: gender,
			Name:   randomuser.Name{Title: title, First: first, Last: last},
			Email:  fmt.Sprintf("%s.%s%d@example.com", strings.ToLower(first), strings.ToLower(last), i),
			Login:  randomuser.Login{UUID: id.String(), Username: username},
			Phone:  fmt.Sprintf("(%03d) %03d-%04d", 200+rng.IntN(800), rng.IntN(1000), rng.IntN(10000)),
			Nat:    nats[rng.IntN(len(nats))],
			Picture: randomuser.Picture{
				Thumbnail: fmt.Sprintf("https://randomuser.me/api/portraits/thumb/%s/%d.jpg", folder, rng.IntN(100)),
			},
			Registered: randomuser.Registered{
				Date: registered.Format(time.RFC3339),
				Age:  int(seedNow.Sub(registered).Hours() / 24 / 365),
			},
		})
	}
	return users
}

// SeedIfEmpty fills an empty store with n generated users and reports how
// many were inserted.
func (s *Store) SeedIfEmpty(ctx context.Context, seed string, n int) (int, error) {
	existing, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	if existing > 0 || n <= 0 {
		return 0, nil
	}
	users := Generate(seed, n)
	if err := s.Insert(ctx, users); err != nil {
		return 0, fmt.Errorf("seed users: %w", err)
	}
	return len(users), nil
}
