package models

// BaseIdentity is the small, stable slice of a user that other records embed:
// display name, avatar and role. It is safe to resolve for ids that do not
// exist (callers get a placeholder), so rendering never breaks on a dangling
// author reference.
type BaseIdentity struct {
	UserID      int    `json:"userId"`
	DisplayName string `json:"displayName"`
	Avatar      string `json:"avatar"`
	Role        string `json:"role"`
}

// Address groups the generated location fields of a profile.
type Address struct {
	City    string `json:"city"`
	Street  string `json:"street"`
	Zipcode string `json:"zipcode"`
}

// Stats holds per-user activity counters. They are generated display data,
// not derived from the post table.
type Stats struct {
	ArticlesRead      int `json:"articlesRead"`
	CommentsMade      int `json:"commentsMade"`
	LikesReceived     int `json:"likesReceived"`
	ArticlesPublished int `json:"articlesPublished"`
	Followers         int `json:"followers"`
	Following         int `json:"following"`
}

// UserProfile is the full user record as returned to callers. The stored
// password never appears here; every return path is sanitized.
type UserProfile struct {
	BaseIdentity
	Username         string  `json:"username"`
	Email            string  `json:"email"`
	RegistrationDate string  `json:"registrationDate"`
	Bio              string  `json:"bio"`
	Address          Address `json:"address"`
	Stats            Stats   `json:"stats"`
	LikedPostIDs     []int   `json:"likedPostIds"`
	FavoritePostIDs  []int   `json:"favoritePostIds"`
}

// Registration is the input to user registration.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult reports a login attempt. A credential mismatch is a structured
// failure, not an error: Success is false and User is nil.
type LoginResult struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    *UserProfile `json:"user,omitempty"`
}

// Comment is embedded in a post. Author fields are a snapshot taken when the
// comment was generated and are never refreshed.
type Comment struct {
	ID       int    `json:"id"`
	AuthorID int    `json:"userId"`
	Author   string `json:"author"`
	Avatar   string `json:"avatarSvg"`
	Content  string `json:"content"`
	Date     string `json:"date"`
}

// Post is a full post record. Likes and Favorites are derived on every read
// by counting the users whose relationship sets contain the post id; they are
// never stored. Author fields are a creation-time snapshot.
type Post struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	Summary      string    `json:"content"`
	Body         string    `json:"fullContent"`
	Category     string    `json:"category"`
	Date         string    `json:"date"`
	ImageURL     string    `json:"imageUrl"`
	Views        int       `json:"views"`
	Shares       int       `json:"shares"`
	AuthorID     int       `json:"authorId"`
	Author       string    `json:"author"`
	AuthorAvatar string    `json:"authorAvatar"`
	Likes        int       `json:"likes"`
	Favorites    int       `json:"favorites"`
	Comments     []Comment `json:"comments"`
}

// Draft is the input to post creation. A zero AuthorID falls back to the
// default author (user 1).
type Draft struct {
	Title    string `json:"title"`
	Summary  string `json:"content"`
	Body     string `json:"fullContent"`
	Category string `json:"category"`
	ImageURL string `json:"imageUrl"`
	AuthorID int    `json:"authorId"`
}

// Filter narrows a post listing. Zero values mean "no constraint"; predicates
// combine with AND.
type Filter struct {
	Category   string `json:"category,omitempty"`
	SearchTerm string `json:"searchTerm,omitempty"`
	AuthorID   int    `json:"authorId,omitempty"`
}

// Category is a derived view over the post table, not a stored entity.
type Category struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Announcement is an ephemeral feed record, regenerated on every call and
// never persisted.
type Announcement struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Date    string `json:"date"`
	Content string `json:"content"`
}

// InteractionState reports whether a user has liked or favorited a post.
type InteractionState struct {
	IsLiked     bool `json:"isLiked"`
	IsFavorited bool `json:"isFavorited"`
}

// User roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Categories is the fixed enumeration posts are drawn from.
var Categories = []string{"技术", "游戏", "财经", "体育", "娱乐", "教育", "健康", "旅游", "时政"}
