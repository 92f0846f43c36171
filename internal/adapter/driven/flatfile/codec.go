package flatfile

import (
	"strings"

	"github.com/ericfisherdev/updatepanel/internal/domain/model"
	"github.com/ericfisherdev/updatepanel/internal/domain/port/driven"
)

const (
	recordSeparator = "\n"
	fieldSeparator  = ","

	// legacyFieldCount is the name,webUrl,databaseName layout written by older
	// releases that dropped the username.
	legacyFieldCount = 3
	fieldCount       = 4
)

// encodeRecord renders a server as name,webUrl,databaseName,username.
// The caller must have validated the server.
func encodeRecord(s model.StatisticsServer) string {
	return strings.Join([]string{s.Name, s.WebURL, s.DatabaseName, s.Username}, fieldSeparator)
}

// encodeRecords joins records with newlines, without a leading or trailing newline.
func encodeRecords(servers []model.StatisticsServer) string {
	lines := make([]string, 0, len(servers))
	for _, s := range servers {
		lines = append(lines, encodeRecord(s))
	}
	return strings.Join(lines, recordSeparator)
}

// decodeRecord parses one line. Both the 4-field and the legacy 3-field layout
// are accepted.
func decodeRecord(line string) (model.StatisticsServer, int, bool) {
	fields := strings.Split(line, fieldSeparator)
	switch len(fields) {
	case fieldCount:
		return model.StatisticsServer{
			Name:         fields[0],
			WebURL:       fields[1],
			DatabaseName: fields[2],
			Username:     fields[3],
		}, len(fields), true
	case legacyFieldCount:
		return model.StatisticsServer{
			Name:         fields[0],
			WebURL:       fields[1],
			DatabaseName: fields[2],
		}, len(fields), true
	default:
		return model.StatisticsServer{}, len(fields), false
	}
}

// decodeRecords parses the full file content. Empty content is zero records.
// A single trailing newline is tolerated; any other empty line is malformed.
// The first malformed line aborts decoding and nothing is returned.
func decodeRecords(content string) ([]model.StatisticsServer, error) {
	if content == "" {
		return []model.StatisticsServer{}, nil
	}

	content = strings.TrimSuffix(content, recordSeparator)
	lines := strings.Split(content, recordSeparator)

	servers := make([]model.StatisticsServer, 0, len(lines))
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		server, n, ok := decodeRecord(line)
		if !ok {
			return nil, &driven.ParseError{Line: i + 1, Content: line, Fields: n}
		}
		servers = append(servers, server)
	}

	return servers, nil
}
