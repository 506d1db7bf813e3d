package policies

import (
	"github.com/preiskampf/preiskampf/internal/auth"
	"github.com/preiskampf/preiskampf/internal/db"
)

// CanUpdateUser: o perfil só é alterado pelo próprio usuário.
func CanUpdateUser(actor auth.SessionUser, targetID int64) bool {
	return actor.ID != 0 && actor.ID == targetID
}

// CanRequestContact barra pedidos para si mesmo e pedidos repetidos.
func CanRequestContact(actor auth.SessionUser, target db.User, alreadyLinked bool) bool {
	return actor.ID != target.ID && !alreadyLinked
}

// Só o destinatário confirma um pedido pendente.
func CanConfirmContact(actor auth.SessionUser, contact db.Contact) bool {
	return !contact.Confirmed && contact.ToUserID == actor.ID
}

func CanDeleteContact(actor auth.SessionUser, contact db.Contact) bool {
	return contact.FromUserID == actor.ID || contact.ToUserID == actor.ID
}

// CanViewPost implementa lógica ABAC: autor ou contato confirmado do autor.
func CanViewPost(actor auth.SessionUser, post db.Post, areContacts bool) bool {
	if actor.ID == 0 {
		return false
	}
	return actor.ID == post.UserID || areContacts
}
