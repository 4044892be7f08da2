package board

import (
	"time"

	"github.com/XiChenQi2025/taoci-magic/pkg/models"
)

// Seed returns the initial board contents written on first run. Timestamps
// are anchored to now so the thread reads recent regardless of install date.
func Seed(now time.Time) []models.Message {
	base := now.UnixMilli()
	day := int64(24 * time.Hour / time.Millisecond)
	return []models.Message{
		{
			ID:         "msg_001",
			Avatar:     "🍑",
			Nickname:   "桃汽水",
			UserID:     "#TAO1",
			Content:    "欢迎大家来到魔力补给站！这里是属于我们的小天地，可以随意留言交流哦～有什么想对我说的，或者有什么有趣的想法，都可以在这里分享！✨",
			Timestamp:  base - 5*day,
			Likes:      42,
			IsStreamer: true,
			Replies: []models.Message{
				{
					ID:        "msg_101",
					ParentID:  "msg_001",
					Avatar:    "✨",
					Nickname:  "星光粉丝",
					UserID:    "#STAR",
					Content:   "桃桃终于有留言板了！太开心了！期待在这里和大家一起聊天～",
					Timestamp: base - 4*day,
					Likes:     15,
				},
				{
					ID:        "msg_102",
					ParentID:  "msg_001",
					Avatar:    "🌙",
					Nickname:  "夜猫子",
					UserID:    "#MOON",
					Content:   "今天直播的新歌太好听了！**单曲循环中** 🎵",
					Timestamp: base - 3*day,
					Likes:     28,
				},
			},
		},
		{
			ID:        "msg_002",
			Avatar:    "🥤",
			Nickname:  "汽水狂热粉",
			UserID:    "#SODA",
			Content:   "想问下大家，周年庆的限定周边在哪里可以预订呀？好想要那个星空主题的马克杯！",
			Timestamp: base - 2*day,
			Likes:     19,
			Replies: []models.Message{
				{
					ID:         "msg_201",
					ParentID:   "msg_002",
					Avatar:     "🍑",
					Nickname:   "桃汽水",
					UserID:     "#TAO1",
					Content:    "在官方店铺哦！链接在这里：https://shop.taoci.com ，谢谢支持！🥰",
					Timestamp:  base - 1*day,
					Likes:      36,
					IsStreamer: true,
				},
			},
		},
		{
			ID:        "msg_003",
			Avatar:    "🎀",
			Nickname:  "粉色小桃子",
			UserID:    "#PEACH",
			Content:   "今天遇到了不开心的事...但是看了桃桃的直播感觉被治愈了，谢谢你一直带来快乐！",
			Timestamp: base - 12*int64(time.Hour/time.Millisecond),
			Likes:     31,
			Replies:   []models.Message{},
		},
	}
}
