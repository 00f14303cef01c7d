// Package manager creates, drops and inspects PostgreSQL databases over a
// maintenance connection. It backs the --overwrite workflow, which drops and
// recreates the target database before a load.
//
// Database names are quoted with pgx.Identifier.Sanitize, so names containing
// spaces, quotes or semicolons are handled safely.
//
//	mgr := manager.New()
//	exists, err := mgr.Exists(ctx, conn, "sparkifydb")
//	err = mgr.TerminateConnections(ctx, conn, "sparkifydb")
//	err = mgr.Drop(ctx, conn, "sparkifydb")
//	err = mgr.Create(ctx, conn, "sparkifydb")
package manager
