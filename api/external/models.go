/* models.go
 * Contains the DTOs for the fixtures feed. These mirror the feed's JSON shape and are
 * converted to the shared domain model by parser.go; nothing outside this package
 * should touch them
 * Authors: Zachary Bower
 */

package external

// FeedResponse is the top-level fixtures payload
type FeedResponse struct {
	Tournament string        `json:"tournament"`
	Fixtures   []FeedFixture `json:"fixtures"`
}

// FeedFixture is one match as the feed reports it. Score and winner fields are
// only populated once the feed considers the match decided.
type FeedFixture struct {
	ID        string     `json:"id"`
	Stage     string     `json:"stage"`
	Group     string     `json:"group,omitempty"`
	KickoffAt string     `json:"kickoffAt"`
	Status    string     `json:"status"`
	Home      FeedTeam   `json:"home"`
	Away      FeedTeam   `json:"away"`
	Score     *FeedScore `json:"score,omitempty"`
	Winner    string     `json:"winner,omitempty"`
	DecidedBy string     `json:"decidedBy,omitempty"`
}

// FeedTeam is one side of a fixture
type FeedTeam struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// FeedScore is the regulation final score
type FeedScore struct {
	Home interface{} `json:"home"`
	Away interface{} `json:"away"`
}
