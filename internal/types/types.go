package types

// Mention represents one stored mention of the tracked handle.
//
// JSON tags match the shape persisted in the KV store, which the portfolio
// site reads directly; changing them is a storage migration.
type Mention struct {
	ID                    string  `json:"id"`
	Text                  string  `json:"text"`
	AuthorID              string  `json:"authorId"`
	AuthorUsername        string  `json:"authorUsername"`
	AuthorName            string  `json:"authorName"`
	AuthorProfileImageURL string  `json:"authorProfileImageUrl"`
	CreatedAt             string  `json:"createdAt"`
	TweetURL              string  `json:"tweetUrl"`
	Metrics               Metrics `json:"metrics"`
}

// Metrics is a snapshot of engagement counts taken at fetch time.
// Stored mentions are never refreshed, so these numbers only ever
// reflect the moment of ingestion.
type Metrics struct {
	LikeCount    int `json:"likeCount"`
	RetweetCount int `json:"retweetCount"`
	ReplyCount   int `json:"replyCount"`
}
