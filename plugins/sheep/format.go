package sheep

import "strings"

// FormatFull renders the multi-line notification message. Field order is
// stable: label, date, security code, title, detail link.
func FormatFull(ann Announcement) string {
	return strings.Join([]string{
		"最新股东回馈消息：",
		"公告时间：" + ann.Date,
		"股票代码：" + ann.SecCode,
		"公告标题：" + ann.Title,
		"公告链接(在PC端打开)：" + ann.DetailURL,
	}, "\n")
}

// FormatDateOnly renders just the announcement date.
func FormatDateOnly(ann Announcement) string { return ann.Date }
