// Package generator produces the seeded fake records behind the mock stores.
// All output is a pure function of the process seed and the record identity:
// asking for the same identity twice yields the same bytes, which keeps
// cross-references (authors, comment authors) stable for the process
// lifetime.
package generator

import (
	"fmt"
	"hash/fnv"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"feedmock/internal/models"
)

// Profile is the generated textual identity of a user.
type Profile struct {
	DisplayName      string
	Username         string
	Email            string
	Password         string
	RegistrationDate string
	Bio              string
	Address          models.Address
	Stats            models.Stats
}

// CommentSeed is a to-be-inserted comment. The author is referenced by id;
// the store snapshots the author's display fields at insert time.
type CommentSeed struct {
	AuthorID int
	Content  string
	Date     string
}

// PostSeed is a to-be-inserted post.
type PostSeed struct {
	Title    string
	Summary  string
	Body     string
	Category string
	Date     string
	ImageURL string
	Views    int
	Shares   int
	AuthorID int
	Comments []CommentSeed
}

// Generator derives one faker per (kind, identity) pair from a single process
// seed. Profiles are additionally memoized so repeated reads of the same
// identity never re-randomize.
type Generator struct {
	seed uint64

	mu       sync.Mutex
	profiles map[int]Profile
}

func New(seed uint64) *Generator {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Generator{seed: seed, profiles: make(map[int]Profile)}
}

// faker returns a deterministic faker for one record. Mixing the kind keeps
// user 7 and post 7 from sharing a random stream.
func (g *Generator) faker(kind string, id int) *gofakeit.Faker {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d/%s/%d", g.seed, kind, id)
	return gofakeit.New(int64(h.Sum64()))
}

// Profile returns the generated identity of a user, memoized per id.
func (g *Generator) Profile(id int) Profile {
	g.mu.Lock()
	defer g.mu.Unlock()
	if p, ok := g.profiles[id]; ok {
		return p
	}

	f := g.faker("user", id)
	// The id suffix guarantees username and email uniqueness across the
	// seeded population; the users table enforces both.
	username := strings.ToLower(f.Username()) + strconv.Itoa(id)
	p := Profile{
		DisplayName:      f.Name(),
		Username:         username,
		Email:            username + "@" + f.DomainName(),
		Password:         f.Password(true, true, true, false, false, 12),
		RegistrationDate: f.DateRange(date(2015, 1, 1), date(2024, 12, 31)).Format("2006-01-02"),
		Bio:              f.Paragraph(1, f.Number(1, 3), 12, " "),
		Address: models.Address{
			City:    f.City(),
			Street:  f.Street(),
			Zipcode: f.Zip(),
		},
		Stats: models.Stats{
			ArticlesRead:      f.Number(10, 500),
			CommentsMade:      f.Number(5, 100),
			LikesReceived:     f.Number(50, 2000),
			ArticlesPublished: f.Number(1, 30),
			Followers:         f.Number(100, 5000),
			Following:         f.Number(50, 1000),
		},
	}
	g.profiles[id] = p
	return p
}

// Relationships draws the seeded liked and favorited post id sets for a user.
// Ids are drawn without replacement from [1, postRange]; set sizes clamp to
// the range so tiny seeds stay constructible.
func (g *Generator) Relationships(id, postRange int) (likes, favorites []int) {
	if postRange <= 0 {
		return nil, nil
	}
	f := g.faker("rel", id)
	likes = g.drawDistinct(f, min(f.Number(5, 15), postRange), postRange)
	favorites = g.drawDistinct(f, min(f.Number(3, 10), postRange), postRange)
	return likes, favorites
}

func (g *Generator) drawDistinct(f *gofakeit.Faker, n, limit int) []int {
	pool := make([]int, limit)
	for i := range pool {
		pool[i] = i + 1
	}
	f.ShuffleInts(pool)
	return pool[:n]
}

// Post returns the generated content of a post, with its author and comment
// authors drawn from the seeded user range.
func (g *Generator) Post(id, userCount int) PostSeed {
	f := g.faker("post", id)
	title := strings.TrimSuffix(f.Sentence(f.Number(3, 7)), ".")
	seed := PostSeed{
		Title:    title,
		Summary:  f.Sentence(f.Number(15, 35)),
		Body:     f.Paragraph(f.Number(5, 10), 4, 14, "\n\n"),
		Category: f.RandomString(models.Categories),
		Date:     f.DateRange(date(2023, 1, 1), date(2024, 12, 31)).Format("2006-01-02"),
		ImageURL: imageURL(f, title),
		Views:    f.Number(50, 3000),
		Shares:   f.Number(5, 200),
		AuthorID: f.Number(1, userCount),
	}
	for i, n := 0, f.Number(0, 5); i < n; i++ {
		seed.Comments = append(seed.Comments, CommentSeed{
			AuthorID: f.Number(1, userCount),
			Content:  f.Paragraph(1, f.Number(1, 3), 10, " "),
			Date:     f.DateRange(date(2023, 1, 1), date(2024, 12, 31)).Format("2006-01-02 15:04:05"),
		})
	}
	return seed
}

// imageURL builds a placeholder image reference from two derived colors and
// the leading runes of the title.
func imageURL(f *gofakeit.Faker, title string) string {
	bg := strings.ToUpper(strings.TrimPrefix(f.HexColor(), "#"))
	fg := strings.ToUpper(strings.TrimPrefix(f.HexColor(), "#"))
	runes := []rune(title)
	if len(runes) > 5 {
		runes = runes[:5]
	}
	return fmt.Sprintf("https://placehold.co/600x400/%s/%s?text=%s", bg, fg, url.QueryEscape(string(runes)))
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
