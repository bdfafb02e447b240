package picker

import (
	_ "embed"
	"html/template"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jakecoffman/bingo"
	"go.uber.org/zap"
)

//go:embed www/index.html
var indexPage []byte

// Router serves the picker page, its websocket and the admin table
func Router(rooms *bingo.Rooms[*Picker], newRoom func(string) *bingo.Room[*Picker]) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", HandleIndex)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Get("/admin", HandleAdmin(rooms))
	r.Handle("/ws", bingo.WsHandler(bingo.ProcessPlayerCommands(rooms, newRoom)))
	return r
}

func HandleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexPage)
}

var adminTemplate = template.Must(template.New("admin").Parse(adminPage))

func HandleAdmin(rooms *bingo.Rooms[*Picker]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := []Summary{}
		for _, id := range rooms.Ids() {
			room := rooms.Get(id)
			if room == nil {
				continue
			}
			response = append(response, room.Class.Summary())
		}
		sort.Slice(response, func(i, j int) bool {
			return response[i].Updated.After(response[j].Updated)
		})
		if err := adminTemplate.Execute(w, response); err != nil {
			zap.L().Error("Rendering admin page", zap.Error(err))
		}
	}
}

// admin page is embedded in this file so our binary includes it, don't need to worry about parsing it at runtime
const adminPage = `
<html>
<head>
    <style>
        table {
            width: 100%;
            border: 1px solid black;
        }
        td {
            text-align: center;
            border: 1px solid black;
        }
    </style>
</head>
<body>
<table>
    <thead>
    <tr>
        <th>Room ID</th>
        <th>Players (online)</th>
        <th>Words selected</th>
        <th>Created</th>
        <th>Updated</th>
    </tr>
    </thead>
    <tbody>
    {{range .}}
    <tr>
        <td>{{.Id}}</td>
        <td>{{.Players}} ({{.Online}})</td>
        <td>{{.Selected}} / {{.Total}}</td>
        <td>{{.Created.Format "01-02 15:04:05"}}</td>
        <td>{{.Updated.Format "01-02 15:04:05"}}</td>
    </tr>
    {{end}}
    </tbody>
</table>
</body>
</html>
`
