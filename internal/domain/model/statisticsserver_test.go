package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatisticsServer_Validate(t *testing.T) {
	valid := StatisticsServer{
		Name:         "Primary",
		WebURL:       "https://a.example/stats.php",
		DatabaseName: "db1",
		Username:     "stats",
	}

	tests := []struct {
		name    string
		mutate  func(s *StatisticsServer)
		wantErr bool
	}{
		{name: "valid", mutate: func(*StatisticsServer) {}},
		{name: "empty username allowed", mutate: func(s *StatisticsServer) { s.Username = "" }},
		{name: "missing name", mutate: func(s *StatisticsServer) { s.Name = "  " }, wantErr: true},
		{name: "missing web url", mutate: func(s *StatisticsServer) { s.WebURL = "" }, wantErr: true},
		{name: "missing database", mutate: func(s *StatisticsServer) { s.DatabaseName = "" }, wantErr: true},
		{name: "comma in name", mutate: func(s *StatisticsServer) { s.Name = "a,b" }, wantErr: true},
		{name: "newline in url", mutate: func(s *StatisticsServer) { s.WebURL = "https://a\n" }, wantErr: true},
		{name: "carriage return in database", mutate: func(s *StatisticsServer) { s.DatabaseName = "db\r" }, wantErr: true},
		{name: "comma in username", mutate: func(s *StatisticsServer) { s.Username = "a,b" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidField)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestStatisticsServer_SelectionAndSummary(t *testing.T) {
	s := StatisticsServer{Name: "Backup", WebURL: "https://b.example", DatabaseName: "db2", Username: "root"}

	assert.Equal(t, Selection{DatabaseName: "db2", WebURL: "https://b.example", Username: "root"}, s.Selection())
	assert.Equal(t, `Web-URL: "https://b.example" - Database: "db2"`, s.Summary())
}
