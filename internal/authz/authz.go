// Package authz decide quais rotas um visitante pode acessar.
package authz

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const (
	RoleAnonymous = "anonymous"
	RoleUser      = "user"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && (p.act == "*" || r.act == p.act)
`

// PublicPaths podem ser acessados sem login.
var PublicPaths = []string{
	"/",
	"/imprint",
	"/about",
	"/login",
	"/registrieren",
	"/authorize",
	"/register",
	"/activate",
	"/health",
	"/metrics",
	"/assets/*",
}

type Enforcer struct {
	e *casbin.Enforcer
}

// New monta o enforcer com a política padrão: anônimos só em PublicPaths,
// usuários autenticados em tudo.
func New() (*Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("authz: model: %w", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("authz: enforcer: %w", err)
	}

	for _, path := range PublicPaths {
		if _, err := e.AddPolicy(RoleAnonymous, path, "*"); err != nil {
			return nil, fmt.Errorf("authz: policy %s: %w", path, err)
		}
	}
	if _, err := e.AddPolicy(RoleUser, "/*", "*"); err != nil {
		return nil, fmt.Errorf("authz: user policy: %w", err)
	}
	if _, err := e.AddGroupingPolicy(RoleUser, RoleAnonymous); err != nil {
		return nil, fmt.Errorf("authz: grouping: %w", err)
	}

	return &Enforcer{e: e}, nil
}

// Allowed informa se role pode executar method em path. Erros do enforcer
// negam o acesso.
func (a *Enforcer) Allowed(role, path, method string) bool {
	ok, err := a.e.Enforce(role, path, method)
	return err == nil && ok
}

func (a *Enforcer) IsPublic(path string) bool {
	return a.Allowed(RoleAnonymous, path, "GET")
}
