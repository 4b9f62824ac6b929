// Package auth provides authentication and authorization for the admin API.
//
// # Credentials
//
// CredentialStore keeps staff accounts in the users table. Passwords are stored
// as bcrypt or Argon2id hashes; Verify reads the algorithm from the stored hash,
// so changing the configured algorithm keeps existing accounts working.
//
// Authenticate never tells an unknown username apart from a wrong password: both
// return ErrInvalidCredentials after one hash verification. A disabled account is
// only reported once the password matched.
//
// # Authorization
//
// Routes require one of four levels: LevelPublic, LevelAuthenticated, LevelEditor
// and LevelAdmin. Admins reach every level, editors everything but LevelAdmin and
// viewers only LevelAuthenticated. Authorize returns ErrUnauthenticated for
// anonymous or inactive users and ErrForbidden for a role that is too low.
//
// Example usage:
//
//	store := auth.NewCredentialStore(db, auth.NewHasher(auth.AlgorithmBcrypt, 12))
//	user, err := store.Authenticate(ctx, username, password)
//
//	app.Post("/api/faqs",
//	    auth.Require(sessions, "session", auth.LevelEditor),
//	    handler,
//	)
package auth
