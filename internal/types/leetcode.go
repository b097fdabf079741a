package types

// TopicStat is the number of problems solved for one topic tag.
type TopicStat struct {
	TopicName string `json:"topicName"`
	Solved    int    `json:"solved"`
}

// LeetCodeStats is the canonical LeetCode aggregate shown on the profile.
type LeetCodeStats struct {
	Total  int         `json:"total"`
	Easy   int         `json:"easy"`
	Medium int         `json:"medium"`
	Hard   int         `json:"hard"`
	Topics []TopicStat `json:"topics"`
}
