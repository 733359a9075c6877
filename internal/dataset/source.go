package dataset

import (
	"net/url"
	"strings"
)

// ExportURL rewrites a Google Sheets edit or publish link to the sheet's CSV
// export endpoint. Other URLs are returned unchanged.
//
//	/spreadsheets/d/<id>/edit#gid=7      → /spreadsheets/d/<id>/export?format=csv&gid=7
//	/spreadsheets/d/e/<pubid>/pubhtml    → /spreadsheets/d/e/<pubid>/pub?output=csv
func ExportURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || !strings.EqualFold(u.Hostname(), "docs.google.com") {
		return raw
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 3 || parts[0] != "spreadsheets" || parts[1] != "d" {
		return raw
	}

	query := u.Query()
	gid := query.Get("gid")
	if gid == "" {
		if frag, err := url.ParseQuery(u.Fragment); err == nil {
			gid = frag.Get("gid")
		}
	}

	out := url.Values{}
	if parts[2] == "e" {
		if len(parts) < 4 {
			return raw
		}
		if len(parts) >= 5 && parts[4] == "pub" && query.Get("output") != "" {
			return raw
		}
		u.Path = "/spreadsheets/d/e/" + parts[3] + "/pub"
		out.Set("output", "csv")
	} else {
		if len(parts) >= 4 && parts[3] == "export" {
			return raw
		}
		u.Path = "/spreadsheets/d/" + parts[2] + "/export"
		out.Set("format", "csv")
	}
	if gid != "" {
		out.Set("gid", gid)
	}

	u.RawQuery = out.Encode()
	u.Fragment = ""
	return u.String()
}

// isRemote reports whether source should be fetched over HTTP.
func isRemote(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// localPath maps a file:// URL or plain path to a filesystem path.
func localPath(source string) string {
	if strings.HasPrefix(strings.ToLower(source), "file://") {
		if u, err := url.Parse(source); err == nil {
			return u.Path
		}
	}
	return source
}
