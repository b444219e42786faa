package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// Presenter builds response views, resolving the per-viewer flags
// (is_favorited, is_in_shopping_cart, is_subscribed) with one query per
// flag for the whole batch.
type Presenter struct {
	favorites     *MembershipService
	cart          *MembershipService
	subscriptions *SubscriptionService
}

func NewPresenter(favorites, cart *MembershipService, subscriptions *SubscriptionService) *Presenter {
	return &Presenter{favorites: favorites, cart: cart, subscriptions: subscriptions}
}

// Recipes renders recipes for viewer; all flags are false when viewer is nil.
func (p *Presenter) Recipes(ctx context.Context, viewer *uuid.UUID, recipes []models.Recipe) ([]types.RecipeResponse, error) {
	out := make([]types.RecipeResponse, 0, len(recipes))

	favorited := map[uuid.UUID]bool{}
	inCart := map[uuid.UUID]bool{}
	followed := map[uuid.UUID]bool{}
	if viewer != nil && len(recipes) > 0 {
		recipeIDs := make([]uuid.UUID, len(recipes))
		var authorIDs []uuid.UUID
		for i, r := range recipes {
			recipeIDs[i] = r.ID
			if r.AuthorID != nil {
				authorIDs = append(authorIDs, *r.AuthorID)
			}
		}

		var err error
		if favorited, err = p.favorites.RecipeIDs(ctx, *viewer, recipeIDs); err != nil {
			return nil, err
		}
		if inCart, err = p.cart.RecipeIDs(ctx, *viewer, recipeIDs); err != nil {
			return nil, err
		}
		if followed, err = p.subscriptions.AuthorIDs(ctx, *viewer, authorIDs); err != nil {
			return nil, err
		}
	}

	for i := range recipes {
		r := &recipes[i]
		view := types.RecipeResponse{
			ID:               r.ID,
			Tags:             tagViews(r.Tags()),
			Ingredients:      lineViews(r.Ingredients),
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            r.Image,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
			PubDate:          r.PubDate,
		}
		if r.Author != nil {
			author := userView(r.Author, followed[r.Author.ID])
			view.Author = &author
		}
		out = append(out, view)
	}
	return out, nil
}

func (p *Presenter) Recipe(ctx context.Context, viewer *uuid.UUID, recipe *models.Recipe) (*types.RecipeResponse, error) {
	views, err := p.Recipes(ctx, viewer, []models.Recipe{*recipe})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (p *Presenter) Users(ctx context.Context, viewer *uuid.UUID, users []models.User) ([]types.UserResponse, error) {
	followed := map[uuid.UUID]bool{}
	if viewer != nil && len(users) > 0 {
		ids := make([]uuid.UUID, len(users))
		for i, u := range users {
			ids[i] = u.ID
		}
		var err error
		if followed, err = p.subscriptions.AuthorIDs(ctx, *viewer, ids); err != nil {
			return nil, err
		}
	}

	out := make([]types.UserResponse, len(users))
	for i := range users {
		out[i] = userView(&users[i], followed[users[i].ID])
	}
	return out, nil
}

func (p *Presenter) User(ctx context.Context, viewer *uuid.UUID, user *models.User) (*types.UserResponse, error) {
	views, err := p.Users(ctx, viewer, []models.User{*user})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Subscriptions renders followed authors with up to recipesLimit of their
// recipes each (all of them when recipesLimit is negative).
func (p *Presenter) Subscriptions(ctx context.Context, viewer uuid.UUID, authors []models.User, recipesLimit int) ([]types.SubscriptionResponse, error) {
	users, err := p.Users(ctx, &viewer, authors)
	if err != nil {
		return nil, err
	}

	out := make([]types.SubscriptionResponse, len(authors))
	for i, author := range authors {
		recipes, err := p.subscriptions.RecipesPreview(ctx, author.ID, recipesLimit)
		if err != nil {
			return nil, err
		}
		count, err := p.subscriptions.RecipeCount(ctx, author.ID)
		if err != nil {
			return nil, err
		}

		short := make([]types.ShortRecipeResponse, len(recipes))
		for j := range recipes {
			short[j] = ShortRecipe(&recipes[j])
		}
		out[i] = types.SubscriptionResponse{
			UserResponse: users[i],
			Recipes:      short,
			RecipesCount: count,
		}
	}
	return out, nil
}

func ShortRecipe(r *models.Recipe) types.ShortRecipeResponse {
	return types.ShortRecipeResponse{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}

func TagView(t *models.Tag) types.TagResponse {
	return types.TagResponse{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug}
}

func IngredientView(i *models.Ingredient) types.IngredientResponse {
	return types.IngredientResponse{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}

func tagViews(tags []models.Tag) []types.TagResponse {
	out := make([]types.TagResponse, len(tags))
	for i := range tags {
		out[i] = TagView(&tags[i])
	}
	return out
}

func lineViews(lines []models.RecipeIngredient) []types.RecipeIngredientResponse {
	out := make([]types.RecipeIngredientResponse, 0, len(lines))
	for _, l := range lines {
		view := types.RecipeIngredientResponse{ID: l.IngredientID, Amount: l.Amount}
		if l.Ingredient != nil {
			view.Name = l.Ingredient.Name
			view.MeasurementUnit = l.Ingredient.MeasurementUnit
		}
		out = append(out, view)
	}
	return out
}

func userView(u *models.User, subscribed bool) types.UserResponse {
	return types.UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}
