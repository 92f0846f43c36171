package pages

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vm "github.com/ericfisherdev/updatepanel/internal/adapter/driving/web/viewmodel"
)

func render(t *testing.T, page vm.ServerListViewModel) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, ServerList(page).Render(context.Background(), &buf))
	return buf.String()
}

func TestServerList_EscapesFormValues(t *testing.T) {
	body := render(t, vm.ServerListViewModel{
		Title: "Statistics servers",
		Form:  vm.ServerFormViewModel{Name: `"><script>alert(1)</script>`, WebURL: "https://a.example/?a=1&b=2"},
	})

	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, `value="&#34;&gt;&lt;script&gt;alert(1)&lt;/script&gt;"`)
	assert.Contains(t, body, `value="https://a.example/?a=1&amp;b=2"`)
	assert.Contains(t, body, `<input type="text" id="database_name" name="database_name" value="" required>`)
	assert.Contains(t, body, `<input type="text" id="username" name="username" value="">`)
}

func TestServerList_RowActionsFollowMode(t *testing.T) {
	row := vm.ServerRowViewModel{Index: 1, Name: "Backup", DeletePath: "/servers/1/delete", SelectPath: "/select/1"}

	management := render(t, vm.ServerListViewModel{Servers: []vm.ServerRowViewModel{row}, CSRFToken: "tok"})
	assert.Contains(t, management, `<li id="server-1">`)
	assert.Contains(t, management, `action="/servers/1/delete"`)
	assert.Contains(t, management, `<input type="hidden" name="csrf_token" value="tok">`)
	assert.Contains(t, management, `action="/servers"`)

	selection := render(t, vm.ServerListViewModel{Servers: []vm.ServerRowViewModel{row}, SelectionMode: true, PromptHTML: "<p>pick</p>"})
	assert.Contains(t, selection, `action="/select/1"`)
	assert.Contains(t, selection, `<div class="prompt"><p>pick</p></div>`)
	assert.NotContains(t, selection, `action="/servers"`)
}

func TestErrorPage_EscapesMessage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ErrorPage("<b>broken</b>").Render(context.Background(), &buf))

	assert.Contains(t, buf.String(), "Error while loading the servers.")
	assert.Contains(t, buf.String(), "&lt;b&gt;broken&lt;/b&gt;")
}
