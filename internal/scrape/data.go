package scrape

import (
	"net/url"
)

// HTTP boundary

type FetchParam struct {
	fetchUrl  url.URL
	userAgent string
}

func NewFetchParam(fetchUrl url.URL, userAgent string) FetchParam {
	return FetchParam{
		fetchUrl:  fetchUrl,
		userAgent: userAgent,
	}
}

type FetchResult struct {
	url  url.URL
	body []byte
	meta ResponseMeta
}

func (f *FetchResult) URL() url.URL {
	return f.url
}

func (f *FetchResult) Body() []byte {
	return f.body
}

func (f *FetchResult) Code() int {
	return f.meta.statusCode
}

func (f *FetchResult) SizeByte() uint64 {
	return f.meta.transferredSizeByte
}

func (f *FetchResult) Headers() map[string]string {
	return f.meta.responseHeaders
}

type ResponseMeta struct {
	statusCode          int
	transferredSizeByte uint64
	responseHeaders     map[string]string
}

// NewFetchResultForTest creates a FetchResult for testing purposes.
// This allows test packages to construct FetchResult values without
// accessing unexported fields directly.
func NewFetchResultForTest(
	url url.URL,
	body []byte,
	statusCode int,
	transferredSizeByte uint64,
	responseHeaders map[string]string,
) FetchResult {
	return FetchResult{
		url:  url,
		body: body,
		meta: ResponseMeta{
			statusCode:          statusCode,
			transferredSizeByte: transferredSizeByte,
			responseHeaders:     responseHeaders,
		},
	}
}

// ArchiveEntry is one newsletter reference extracted from an archive
// page. DateStr keeps the archive's original MM/DD/YYYY text; parsing it
// is deferred to whoever needs a time.Time.
type ArchiveEntry struct {
	title   string
	url     string
	dateStr string
}

func NewArchiveEntry(
	title string,
	url string,
	dateStr string,
) ArchiveEntry {
	return ArchiveEntry{
		title:   title,
		url:     url,
		dateStr: dateStr,
	}
}

func (a *ArchiveEntry) GetTitle() string {
	return a.title
}

func (a *ArchiveEntry) GetURL() string {
	return a.url
}

func (a *ArchiveEntry) GetDateStr() string {
	return a.dateStr
}

// ScrapedNewsletter is the raw result of fetching one archived
// newsletter. The content is UNSANITIZED at this point; the pipeline
// owns the sanitize-then-convert ordering.
type ScrapedNewsletter struct {
	url            string
	htmlContent    string
	subject        string
	archiveTitle   string
	archiveDateStr string
}

func NewScrapedNewsletter(
	url string,
	htmlContent string,
	subject string,
	archiveTitle string,
	archiveDateStr string,
) ScrapedNewsletter {
	return ScrapedNewsletter{
		url:            url,
		htmlContent:    htmlContent,
		subject:        subject,
		archiveTitle:   archiveTitle,
		archiveDateStr: archiveDateStr,
	}
}

func (s *ScrapedNewsletter) GetURL() string {
	return s.url
}

func (s *ScrapedNewsletter) GetHTMLContent() string {
	return s.htmlContent
}

func (s *ScrapedNewsletter) GetSubject() string {
	return s.subject
}

func (s *ScrapedNewsletter) GetArchiveTitle() string {
	return s.archiveTitle
}

func (s *ScrapedNewsletter) GetArchiveDateStr() string {
	return s.archiveDateStr
}
