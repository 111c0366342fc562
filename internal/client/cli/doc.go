// Package cli is the terminal front end of the user directory. It reads
// one command per line, renders the current page as a table and drives
// client.State for filtering, paging and the add/edit/delete flows.
//
// Commands:
//
//	help                          show available commands
//	list | l                      show the current page
//	next | prev | page N          move between pages
//	search [text]                 filter by name or email, empty clears
//	gender all|male|female|other  filter by gender
//	status all|active|inactive    filter by status
//	add                           open the add form
//	edit N|ID                     edit row N of the page or a user id
//	delete N|ID                   delete after confirmation
//	exit | quit                   leave
package cli
