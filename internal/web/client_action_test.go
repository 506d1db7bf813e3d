package web

import (
	"net/http/httptest"
	"testing"
)

func TestClientActions(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		var actions ClientActions
		rr := httptest.NewRecorder()
		if err := actions.Write(rr); err != nil {
			t.Fatal(err)
		}
		if rr.Header().Get("HX-Trigger") != "" {
			t.Error("no header expected without actions")
		}
		got, _ := actions.HeaderValue()
		if got != `{"xui:clientAction":[]}` {
			t.Errorf("HeaderValue = %s", got)
		}
	})

	t.Run("Serialize", func(t *testing.T) {
		var actions ClientActions
		actions.Add("#shopping-list-1", "removeClass", "selected")
		actions.Add("#shopping-list-2", "addClass", "pulsing", "cursor-pointer")
		actions.Add("#shopping-list-3", "blur")

		rr := httptest.NewRecorder()
		if err := actions.Write(rr); err != nil {
			t.Fatal(err)
		}
		want := `{"xui:clientAction":[` +
			`{"selector":"#shopping-list-1","method":"removeClass","args":["selected"]},` +
			`{"selector":"#shopping-list-2","method":"addClass","args":["pulsing","cursor-pointer"]},` +
			`{"selector":"#shopping-list-3","method":"blur","args":[]}]}`
		if got := rr.Header().Get("HX-Trigger"); got != want {
			t.Errorf("HX-Trigger =\n%s\nwant\n%s", got, want)
		}
	})
}
