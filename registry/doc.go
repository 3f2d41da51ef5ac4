// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package registry keeps the system-level user list.

Accounts join in two steps. A caller asks to register with a display name
and an external id (a national id number, say), and the administrator
approves the request:

	reg := registry.New(adminID, "root", "0")
	err := reg.Register(callerID, "Ana", "12345678")
	err = reg.Approve(adminID, callerID)

Only approved users take part in elections. The administrator is seeded as an
approved user and may hand the role to another account with DelegateAdmin;
the previous administrator keeps its approved user record.

Registry implements election.Directory, so the election engine asks it who a
caller is without knowing how accounts are stored. Registry errors are the
identity and permission sentinels of the election package.
*/
package registry
