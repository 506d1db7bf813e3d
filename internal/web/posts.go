package web

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/preiskampf/preiskampf/internal/db"
	"github.com/preiskampf/preiskampf/internal/logging"
	"github.com/preiskampf/preiskampf/internal/metrics"
	"github.com/preiskampf/preiskampf/internal/policies"
	"github.com/preiskampf/preiskampf/internal/routes"
	"github.com/preiskampf/preiskampf/internal/validator"
	"github.com/preiskampf/preiskampf/internal/view"
	"github.com/preiskampf/preiskampf/internal/view/pages"
)

func handlePosts(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	paging := view.FromContext(ctx).Pagination()

	posts, err := deps.Pool.Queries().ListTimeline(ctx, db.ListTimelineParams{
		UserID: currentUser(r).ID,
		Window: db.NewWindow(paging.FetchLimit(), paging.Offset()),
	})
	if err != nil {
		return fmt.Errorf("failed to list timeline: %w", err)
	}
	paging = paging.WithFetchedCount(uint(len(posts)))

	metrics.ListPagesRendered.WithLabelValues("posts", "overfetch").Inc()
	templ.Handler(pages.Posts(pages.Timeline{
		Posts:      view.Truncate(posts, paging.PageSize),
		Pagination: paging,
	})).ServeHTTP(w, r)
	return nil
}

func handleCreatePost(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	user := currentUser(r)

	form := validator.PostForm{Body: validator.Sanitize(r.FormValue("body"))}
	if result := validator.Validate(form); !result.Valid {
		logging.AddToEvent(ctx, slog.String("outcome", "invalid"))
		redirect(w, r, withFlag(routes.Posts, view.RedirectError))
		return nil
	}

	post, err := deps.Pool.QueriesWrite().CreatePost(ctx, db.CreatePostParams{UserID: user.ID, Body: form.Body})
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	logging.AddToEvent(ctx, slog.Int64("post_id", post.ID))
	redirect(w, r, withFlag(routes.Posts, view.RedirectSuccess))
	return nil
}

func handlePostDetail(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	user := currentUser(r)

	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return nil
	}

	post, err := deps.Pool.Queries().GetPost(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		handleNotFound(w, r)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load post: %w", err)
	}

	areContacts := false
	if post.UserID != user.ID {
		areContacts, err = deps.Pool.Queries().AreContacts(ctx, db.ContactPairParams{UserA: user.ID, UserB: post.UserID})
		if err != nil {
			return fmt.Errorf("failed to check contacts: %w", err)
		}
	}
	if !policies.CanViewPost(user, post.Post, areContacts) {
		logging.AddToEvent(ctx, slog.String("outcome", "forbidden"), slog.Int64("post_id", id))
		handleNotFound(w, r)
		return nil
	}

	templ.Handler(pages.PostDetail(post)).ServeHTTP(w, r)
	return nil
}
