package web

import (
	"fmt"

	vm "github.com/ericfisherdev/updatepanel/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/updatepanel/internal/application"
	"github.com/ericfisherdev/updatepanel/internal/domain/model"
)

// toServerRowViewModels converts the loaded server list to row view models.
func toServerRowViewModels(servers []model.StatisticsServer) []vm.ServerRowViewModel {
	rows := make([]vm.ServerRowViewModel, 0, len(servers))
	for i, s := range servers {
		rows = append(rows, vm.ServerRowViewModel{
			Index:      i,
			Name:       s.Name,
			Summary:    s.Summary(),
			Username:   s.Username,
			DeletePath: fmt.Sprintf("/servers/%d/delete", i),
			SelectPath: fmt.Sprintf("/select/%d", i),
		})
	}
	return rows
}

// toServerListViewModel builds the page model from an open session.
func toServerListViewModel(session *application.ServerSession, csrf string) vm.ServerListViewModel {
	selectionMode := session.Mode() == application.ModeSelection

	title := "Statistics servers"
	if selectionMode {
		title = "Select a statistics server"
	}

	return vm.ServerListViewModel{
		Title:         title,
		SelectionMode: selectionMode,
		PromptHTML:    RenderMarkdown(session.Prompt()),
		Servers:       toServerRowViewModels(session.Servers()),
		CSRFToken:     csrf,
	}
}

func toSelectionViewModel(name string, s model.Selection) vm.SelectionViewModel {
	return vm.SelectionViewModel{
		Name:         name,
		DatabaseName: s.DatabaseName,
		WebURL:       s.WebURL,
		Username:     s.Username,
	}
}
