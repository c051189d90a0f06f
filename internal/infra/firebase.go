// README: Firebase auth client; verifies the ID tokens callers present to the API.
package infra

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// FirebaseToken is the slice of a verified ID token the API cares about:
// the uid that owns conversations and trips, plus custom claims.
type FirebaseToken struct {
	UID    string
	Claims map[string]interface{}
}

// TokenVerifier checks a raw bearer token. The auth middleware depends on
// this interface so tests can substitute a stub verifier.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*FirebaseToken, error)
}

type firebaseVerifier struct {
	client *auth.Client
}

// NewFirebaseVerifier builds the production verifier from the Admin SDK.
// projectID comes from WAYFARE_FIREBASE_PROJECT_ID and is required for
// token verification. credentialsFile (WAYFARE_FIREBASE_CREDENTIALS) is the
// service-account JSON path; leave it empty to fall back to application
// default credentials.
func NewFirebaseVerifier(ctx context.Context, projectID, credentialsFile string) (TokenVerifier, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth client: %w", err)
	}
	return &firebaseVerifier{client: client}, nil
}

func (v *firebaseVerifier) VerifyIDToken(ctx context.Context, idToken string) (*FirebaseToken, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}
	return &FirebaseToken{UID: token.UID, Claims: token.Claims}, nil
}
