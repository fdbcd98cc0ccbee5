package chatbot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nexiplay/nexiplay-go/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	items      []*model.ContentItem
	searchErr  error
	requestErr error
	requests   []string
}

func (f *fakeStore) TrendingContent(ctx context.Context, limit int) ([]*model.ContentItem, error) {
	if len(f.items) > limit {
		return f.items[:limit], nil
	}
	return f.items, nil
}

func (f *fakeStore) SearchContent(ctx context.Context, query string, limit int) ([]*model.ContentItem, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	var out []*model.ContentItem
	for _, it := range f.items {
		if strings.Contains(strings.ToLower(it.Title), strings.ToLower(query)) {
			out = append(out, it)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) CreateContentRequest(ctx context.Context, req *model.ContentRequest) error {
	if f.requestErr != nil {
		return f.requestErr
	}
	f.requests = append(f.requests, req.ContentName)
	return nil
}

type fakeSettings struct {
	chatbot *model.ChatbotSettings
	faqs    []*model.FAQ
}

func (f *fakeSettings) ChatbotSettings(ctx context.Context) (*model.ChatbotSettings, error) {
	return f.chatbot, nil
}

func (f *fakeSettings) FAQs(ctx context.Context) ([]*model.FAQ, error) {
	return f.faqs, nil
}

func catalog() []*model.ContentItem {
	return []*model.ContentItem{
		{Title: "Avatar: The Way of Water", Slug: "avatar-2", Type: model.TypeMovie},
		{Title: "Avatar", Slug: "avatar", Type: model.TypeMovie},
		{Title: "The Last Airbender", Slug: "last-airbender", Type: model.TypeSeries},
		{Title: "Naruto", Slug: "naruto", Type: model.TypeAnime},
		{Title: "Dark", Slug: "dark", Type: model.TypeSeries},
	}
}

func TestBot_Greeting(t *testing.T) {
	b := New(&fakeStore{}, nil, 3)

	r, err := b.Reply(context.Background(), "Hello there")
	require.NoError(t, err)
	assert.Equal(t, KindGreeting, r.Kind)
	assert.Equal(t, greetingReply, r.Text)

	r, err = b.Reply(context.Background(), "Salam vai")
	require.NoError(t, err)
	assert.Equal(t, KindGreeting, r.Kind)
}

func TestBot_GreetingNeedsWholeWord(t *testing.T) {
	st := &fakeStore{}
	r, err := New(st, nil, 3).Reply(context.Background(), "Shining")
	require.NoError(t, err)
	assert.Equal(t, KindNotFound, r.Kind)
	assert.Equal(t, []string{"Shining"}, st.requests)
}

func TestBot_Trending(t *testing.T) {
	b := New(&fakeStore{items: catalog()}, nil, 3)

	r, err := b.Reply(context.Background(), "Can you recommend something?")
	require.NoError(t, err)
	assert.Equal(t, KindTrending, r.Kind)
	assert.Len(t, r.Results, trendingLimit)
	assert.True(t, strings.HasPrefix(r.Text, trendingHeading))

	r, err = b.Reply(context.Background(), "ki ki ache")
	require.NoError(t, err)
	assert.Equal(t, KindTrending, r.Kind)
	assert.Equal(t, Banglish, r.Language)
}

func TestBot_TrendingDirect(t *testing.T) {
	st := &fakeStore{items: catalog()}
	r, err := New(st, nil, 3).Trending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, KindTrending, r.Kind)
	assert.Len(t, r.Results, trendingLimit)
	assert.Empty(t, st.requests)

	disabled := &fakeSettings{chatbot: &model.ChatbotSettings{IsEnabled: false}}
	_, err = New(st, disabled, 3).Trending(context.Background())
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestBot_FAQ(t *testing.T) {
	settings := &fakeSettings{faqs: []*model.FAQ{
		{Keywords: "how to, download", Answer: "Pick a resolution"},
		{Keywords: "telegram", Answer: "Join our channel"},
	}}
	b := New(&fakeStore{}, settings, 3)

	r, err := b.Reply(context.Background(), "group e kothay join korbo")
	require.NoError(t, err)
	assert.Equal(t, KindFAQ, r.Kind)
	assert.Equal(t, "Join our channel", r.Text)
	assert.Equal(t, Banglish, r.Language)

	r, err = b.Reply(context.Background(), "movie kemne namabo")
	require.NoError(t, err)
	assert.Equal(t, KindFAQ, r.Kind)
	assert.Equal(t, "Pick a resolution", r.Text)
}

func TestBot_SearchFoundIsRanked(t *testing.T) {
	b := New(&fakeStore{items: catalog()}, nil, 1)

	r, err := b.Reply(context.Background(), "Avatar movie ache?")
	require.NoError(t, err)
	assert.Equal(t, KindFound, r.Kind)
	assert.Equal(t, Banglish, r.Language)
	assert.Equal(t, "Avatar", r.Query)
	assert.Equal(t, `Ji! Khuje peyechi: "Avatar":`, r.Text)
	require.Len(t, r.Results, 1)
	assert.Equal(t, "Avatar", r.Results[0].Title)
	assert.Equal(t, "/movie/avatar", r.Results[0].URL)
}

func TestBot_SearchNotFoundLogsRequest(t *testing.T) {
	st := &fakeStore{items: catalog()}
	r, err := New(st, nil, 3).Reply(context.Background(), "Do you have Interstellar please")
	require.NoError(t, err)

	assert.Equal(t, KindNotFound, r.Kind)
	assert.Equal(t, English, r.Language)
	assert.Equal(t, `Currently unavailable. Added request for "Interstellar"`, r.Text)
	assert.Equal(t, []string{"Interstellar"}, st.requests)
}

func TestBot_SearchNotFoundBengali(t *testing.T) {
	st := &fakeStore{}
	r, err := New(st, nil, 3).Reply(context.Background(), "ইন্টারস্টেলার")
	require.NoError(t, err)
	assert.Equal(t, KindNotFound, r.Kind)
	assert.Equal(t, Bengali, r.Language)
	assert.Equal(t, msgNotFound[Bengali], r.Text)
}

func TestBot_RequestFailureIsErrorReply(t *testing.T) {
	st := &fakeStore{requestErr: errors.New("insert failed")}
	r, err := New(st, nil, 3).Reply(context.Background(), "Interstellar")
	require.NoError(t, err)
	assert.Equal(t, KindError, r.Kind)
	assert.Equal(t, "Something went wrong.", r.Text)
}

func TestBot_SearchFailureIsErrorReply(t *testing.T) {
	st := &fakeStore{searchErr: errors.New("db down")}
	r, err := New(st, nil, 3).Reply(context.Background(), "Interstellar")
	require.NoError(t, err)
	assert.Equal(t, KindError, r.Kind)
	assert.Empty(t, st.requests)
}

func TestBot_AskNameWhenOnlyFiller(t *testing.T) {
	r, err := New(&fakeStore{}, nil, 3).Reply(context.Background(), "movie ki?")
	require.NoError(t, err)
	assert.Equal(t, KindAskName, r.Kind)
	assert.Equal(t, "Bujhte parini, shudhu naam ta bolun?", r.Text)
}

func TestBot_DisabledAndEmpty(t *testing.T) {
	settings := &fakeSettings{chatbot: &model.ChatbotSettings{IsEnabled: false}}
	b := New(&fakeStore{}, settings, 3)

	_, err := b.Reply(context.Background(), "Avatar")
	assert.ErrorIs(t, err, ErrDisabled)
	_, err = b.Welcome(context.Background())
	assert.ErrorIs(t, err, ErrDisabled)

	_, err = New(&fakeStore{}, nil, 3).Reply(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestBot_Welcome(t *testing.T) {
	msg, err := New(&fakeStore{}, nil, 3).Welcome(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultWelcome, msg)

	settings := &fakeSettings{chatbot: &model.ChatbotSettings{IsEnabled: true, WelcomeMessage: "Welcome back!"}}
	msg, err = New(&fakeStore{}, settings, 3).Welcome(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Welcome back!", msg)
}
