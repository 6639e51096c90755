package testutil

import (
	"fmt"
	"strings"
)

// ListingRowOptions contains options for generating one listing row.
type ListingRowOptions struct {
	ArticleID string
	Title     string
}

// AttachmentLinkOptions contains options for generating one attachment link
// on a detail page.
type AttachmentLinkOptions struct {
	FileNo   string
	Ord      string
	Ext      string
	Filename string
}

// GenerateListingHTML generates board listing markup in the shape the MSIT
// board uses: each article row carries an anchor wired to fn_detail(NNN).
// Pass the same ArticleID in multiple rows to simulate the duplicate calls
// the real markup contains (title link and subject cell).
func GenerateListingHTML(rows []ListingRowOptions) string {
	var sb strings.Builder

	sb.WriteString(`<html>
<head><meta charset="utf-8"><title>공지사항 | 과학기술정보통신부</title></head>
<body>
<div class="board_list">
<table class="tbl_list">
	<thead>
		<tr><th>번호</th><th>제목</th><th>담당부서</th><th>등록일</th></tr>
	</thead>
	<tbody>
`)

	for i, row := range rows {
		title := row.Title
		if title == "" {
			title = fmt.Sprintf("보도자료 %s", row.ArticleID)
		}
		sb.WriteString(fmt.Sprintf(`		<tr>
			<td>%d</td>
			<td class="subject"><a href="#;" onclick="fn_detail(%s); return false;">%s</a></td>
			<td>대변인실</td>
			<td>2026-08-31</td>
		</tr>
`, i+1, row.ArticleID, title))
	}

	sb.WriteString(`	</tbody>
</table>
</div>
</body>
</html>`)
	return sb.String()
}

// GenerateDetailHTML generates detail page markup with a file list whose
// anchors are wired to fn_download('atchFileNo', 'fileOrd', 'ext'). The real
// page renders each attachment twice (download icon and filename link), which
// EachTwice reproduces for duplicate-collapse tests.
func GenerateDetailHTML(title string, links []AttachmentLinkOptions, eachTwice bool) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<html>
<head>
<meta charset="utf-8">
<meta property="og:title" content="%s">
<title>%s | 과학기술정보통신부</title>
</head>
<body>
<div class="board_view">
<div class="view_head"><h3>%s</h3></div>
<div class="view_file">
	<ul>
`, title, title, title))

	writeLink := func(link AttachmentLinkOptions) {
		filename := link.Filename
		if filename == "" {
			filename = fmt.Sprintf("attachment.%s", link.Ext)
		}
		sb.WriteString(fmt.Sprintf(`		<li><a href="#none" onclick="fn_download('%s', '%s', '%s'); return false;">%s</a></li>
`, link.FileNo, link.Ord, link.Ext, filename))
	}

	for _, link := range links {
		writeLink(link)
		if eachTwice {
			writeLink(link)
		}
	}

	sb.WriteString(`	</ul>
</div>
<div class="view_cont"><p>본문 내용</p></div>
</div>
</body>
</html>`)
	return sb.String()
}
