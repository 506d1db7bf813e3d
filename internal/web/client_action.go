package web

import (
	"encoding/json"
	"net/http"
)

// clientActionEvent é o evento HX-Trigger que o listener em app.js executa
// contra o DOM.
const clientActionEvent = "xui:clientAction"

type clientAction struct {
	Selector string   `json:"selector"`
	Method   string   `json:"method"`
	Args     []string `json:"args"`
}

// ClientActions acumula manipulações de DOM para a resposta atual.
type ClientActions struct {
	actions []clientAction
}

func (c *ClientActions) Add(selector, method string, args ...string) {
	if args == nil {
		args = []string{}
	}
	c.actions = append(c.actions, clientAction{Selector: selector, Method: method, Args: args})
}

func (c *ClientActions) Len() int {
	return len(c.actions)
}

// HeaderValue serializa as ações no formato {"xui:clientAction": [...]}.
func (c *ClientActions) HeaderValue() (string, error) {
	actions := c.actions
	if actions == nil {
		actions = []clientAction{}
	}
	data, err := json.Marshal(map[string][]clientAction{clientActionEvent: actions})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Write grava o header HX-Trigger; sem ações não faz nada.
func (c *ClientActions) Write(w http.ResponseWriter) error {
	if c.Len() == 0 {
		return nil
	}
	value, err := c.HeaderValue()
	if err != nil {
		return err
	}
	w.Header().Set("HX-Trigger", value)
	return nil
}
