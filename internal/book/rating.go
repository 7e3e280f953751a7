package book

import (
	"strconv"
	"strings"
)

// Rating color buckets, highest first. Lookup falls through to the nearest
// lower bucket, so out-of-range values like 7 land on gold and 2.5 on orange.
var ratingBuckets = []struct {
	Threshold float64
	Bucket    string
}{
	{5, "gold"},
	{4, "green"},
	{3, "lime-green"},
	{2, "orange"},
	{1, "red"},
}

// BucketUnrated is the bucket for missing or unparseable ratings.
const BucketUnrated = "gray"

// ParseRating extracts a numeric rating from a raw export value. Non-numeric
// characters are stripped first, so "3 stars" parses as 3. Unparseable
// values yield 0.
func ParseRating(raw string) float64 {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}

	n, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return n
}

// RatingBucket maps a raw rating value to its color bucket.
func RatingBucket(raw string) string {
	n := ParseRating(raw)
	for _, rb := range ratingBuckets {
		if n >= rb.Threshold {
			return rb.Bucket
		}
	}
	return BucketUnrated
}
