package factory

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/rpsgame-go/internal/gateway"
	"github.com/mcoot/rpsgame-go/internal/model"
	"github.com/mcoot/rpsgame-go/internal/realtime"
	"github.com/mcoot/rpsgame-go/internal/services/auth"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

func (s *IntegrationSuite) TearDownTest() {
	s.NoError(s.app.Close())
}

type connectedPlayer struct {
	session *gateway.Session
	client  *realtime.Client
}

// connect registers an account, resolves its token and attaches a hub client
// the way the websocket transport does
func (s *IntegrationSuite) connect(username, idSuffix string) connectedPlayer {
	s.app.MockRandom.QueueString(idSuffix)
	_, err := s.app.AuthService.Register(s.ctx, username, username+"@example.com", "password123", "")
	s.Require().NoError(err)

	token, err := s.app.AuthService.Login(s.ctx, username, "password123")
	s.Require().NoError(err)

	identity, err := s.app.AuthService.ResolveToken(token.AccessToken)
	s.Require().NoError(err)

	sess := gateway.NewSession(identity)
	client := realtime.NewClient(sess.ID, sess.PlayerID())
	s.app.Hub.Register(client)
	return connectedPlayer{session: sess, client: client}
}

// next waits for the next message of the given event on the client
func (s *IntegrationSuite) next(p connectedPlayer, event model.EventName) realtime.Message {
	timeout := time.After(2 * time.Second)
	for {
		select {
		case msg := <-p.client.Send():
			if msg.Event == event {
				return msg
			}
		case <-timeout:
			s.FailNow("timed out waiting for event", string(event))
			return realtime.Message{}
		}
	}
}

// Test: two players join, play one match and see the ranking change
func (s *IntegrationSuite) TestCompleteMatchFlow() {
	ann := s.connect("ann", "ann0000000000000")
	bob := s.connect("bob", "bob0000000000000")

	s.Require().NoError(s.app.Gateway.Join(s.ctx, ann.session, ""))
	s.Require().NoError(s.app.Gateway.Join(s.ctx, bob.session, "Bobby"))

	s.Require().NoError(s.app.Gateway.Play(s.ctx, ann.session, "rock"))
	s.Require().NoError(s.app.Gateway.Play(s.ctx, bob.session, "scissors"))

	var annResult model.RoundResult
	s.Require().NoError(json.Unmarshal(s.next(ann, model.EventRoundResult).Data, &annResult))
	s.Equal(model.ResultWin, annResult.Result)
	s.Equal(3, annResult.DeltaScore)
	s.Equal(model.MoveScissors, annResult.OpponentMove)

	var bobResult model.RoundResult
	s.Require().NoError(json.Unmarshal(s.next(bob, model.EventRoundResult).Data, &bobResult))
	s.Equal(model.ResultLose, bobResult.Result)
	s.Equal(0, bobResult.DeltaScore)

	var entries []model.RankingEntry
	s.Require().NoError(json.Unmarshal(s.next(bob, model.EventRankingUpdated).Data, &entries))
	s.Require().Len(entries, 2)
	s.Equal("ann", entries[0].Name)
	s.Equal(3, entries[0].Score)
	s.Equal("Bobby", entries[1].Name)
	s.Equal(0, entries[1].Score)
	s.Zero(s.app.MatchEngine.QueueLen())
}

// Test: a draw awards both players the draw score
func (s *IntegrationSuite) TestDrawAwardsBothPlayers() {
	ann := s.connect("ann", "ann0000000000000")
	bob := s.connect("bob", "bob0000000000000")
	s.Require().NoError(s.app.Gateway.Join(s.ctx, ann.session, ""))
	s.Require().NoError(s.app.Gateway.Join(s.ctx, bob.session, ""))

	s.Require().NoError(s.app.Gateway.Play(s.ctx, ann.session, "paper"))
	s.Require().NoError(s.app.Gateway.Play(s.ctx, bob.session, "paper"))

	ranking, err := s.app.RankingService.GetRanking(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(ranking, 2)
	for _, entry := range ranking {
		s.Equal(1, entry.Score)
	}
}

// Test: disconnecting marks the player offline and keeps their score
func (s *IntegrationSuite) TestDisconnectKeepsScore() {
	ann := s.connect("ann", "ann0000000000000")
	bob := s.connect("bob", "bob0000000000000")
	s.Require().NoError(s.app.Gateway.Join(s.ctx, ann.session, ""))
	s.Require().NoError(s.app.Gateway.Join(s.ctx, bob.session, ""))
	s.Require().NoError(s.app.Gateway.Play(s.ctx, ann.session, "scissors"))
	s.Require().NoError(s.app.Gateway.Play(s.ctx, bob.session, "paper"))

	s.app.Gateway.Disconnect(s.ctx, ann.session)

	var left model.PlayerLeftPayload
	s.Require().NoError(json.Unmarshal(s.next(bob, model.EventPlayerLeft).Data, &left))
	s.Equal(ann.session.PlayerID(), left.PlayerID)

	state, err := s.app.RegistryService.Get(s.ctx, ann.session.PlayerID())
	s.Require().NoError(err)
	s.False(state.IsOnline)
	s.Empty(state.SessionID)
	s.Equal(3, state.Score)
}

// Test: a token minted for one identity resolves to the same player id on every connection
func (s *IntegrationSuite) TestReconnectReusesPlayer() {
	first := s.connect("ann", "ann0000000000000")
	s.Require().NoError(s.app.Gateway.Join(s.ctx, first.session, "Annie"))
	s.app.Gateway.Disconnect(s.ctx, first.session)

	token, err := s.app.AuthService.Login(s.ctx, "ann@example.com", "password123")
	s.Require().NoError(err)
	identity, err := s.app.AuthService.ResolveToken(token.AccessToken)
	s.Require().NoError(err)

	second := gateway.NewSession(identity)
	s.Require().NoError(s.app.Gateway.Join(s.ctx, second, ""))

	players, err := s.app.RegistryService.GetAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(players, 1)
	s.True(players[0].IsOnline)
	s.Equal(second.ID, players[0].SessionID)
	s.Equal("Annie", players[0].Name)
}

// Test: expired tokens are rejected once the clock moves on
func (s *IntegrationSuite) TestTokenExpiry() {
	s.app.MockRandom.QueueString("ann0000000000000")
	_, err := s.app.AuthService.Register(s.ctx, "ann", "ann@example.com", "password123", "")
	s.Require().NoError(err)
	token, err := s.app.AuthService.Login(s.ctx, "ann", "password123")
	s.Require().NoError(err)

	s.app.MockClock.Advance(auth.DefaultConfig().TokenTTL + time.Minute)

	_, err = s.app.AuthService.ResolveToken(token.AccessToken)
	s.ErrorIs(err, auth.ErrInvalidToken)
}
