// Command client is an interactive console front-end for the catalog
// service. It keeps one session at a time and re-prompts after any failure.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"bookery/internal/catalog"
	"bookery/internal/clients"
	"bookery/internal/session"
)

func main() {
	baseURL := getEnv("SERVER_URL", "http://localhost:8080")
	sessionClient := clients.NewSessionClient(baseURL)
	catalogClient := clients.NewCatalogClient(baseURL)

	ui := &console{
		in:       bufio.NewScanner(os.Stdin),
		sessions: sessionClient,
		catalog:  catalogClient,
	}
	ui.run(context.Background())
}

type console struct {
	in       *bufio.Scanner
	sessions *clients.SessionClient
	catalog  *clients.CatalogClient
	current  session.Session
	loggedIn bool
}

func (c *console) run(ctx context.Context) {
	fmt.Println("Book catalog console. Type 'help' for commands.")
	for {
		fmt.Print("> ")
		if !c.in.Scan() {
			return
		}
		line := strings.TrimSpace(c.in.Text())
		if line == "" {
			continue
		}

		switch line {
		case "help":
			c.printHelp()
		case "login":
			c.login(ctx)
		case "logout":
			c.logout(ctx)
		case "add":
			c.addBook(ctx)
		case "remove":
			c.removeBook(ctx)
		case "remove-isbn":
			c.removeByISBN(ctx)
		case "lookup":
			c.lookup(ctx)
		case "list":
			c.list(ctx)
		case "owners":
			c.owners(ctx)
		case "mine":
			c.booksForOwner(ctx)
		case "quit", "exit":
			return
		default:
			fmt.Printf("unknown command %q, type 'help'\n", line)
		}
	}
}

func (c *console) printHelp() {
	fmt.Println(`commands:
  login        authenticate and open a session
  logout       destroy the current user's sessions
  add          add a book owned by the logged-in user
  remove       remove a book by isbn and owner
  remove-isbn  remove your own copy by isbn
  lookup       look up a book by isbn and owner
  list         list all books
  owners       list owners holding a copy of an isbn
  mine         list books for an owner
  quit         exit`)
}

func (c *console) login(ctx context.Context) {
	username := c.prompt("username")
	password := c.prompt("password")
	sess, err := c.sessions.Authenticate(ctx, username, password)
	if err != nil {
		fmt.Println("login failed:", err)
		return
	}
	c.current = sess
	c.loggedIn = true
	fmt.Printf("logged in as %s\n", sess.Username)
}

func (c *console) logout(ctx context.Context) {
	if !c.loggedIn {
		fmt.Println("not logged in")
		return
	}
	if err := c.sessions.DestroySession(ctx, c.current.Username); err != nil {
		fmt.Println("logout failed:", err)
		return
	}
	c.loggedIn = false
	fmt.Println("logged out")
}

func (c *console) addBook(ctx context.Context) {
	if !c.loggedIn {
		fmt.Println("log in first")
		return
	}

	year, err := strconv.Atoi(c.prompt("year"))
	if err != nil {
		fmt.Println("invalid year:", err)
		return
	}
	rating, err := catalog.ParseRating(c.prompt("rating (POOR/AVERAGE/GOOD/EXCELLENT/UNKNOWN)"))
	if err != nil {
		fmt.Println(err)
		return
	}

	book := catalog.Book{
		Title:  c.prompt("title"),
		Author: c.prompt("author"),
		Year:   year,
		Rating: rating,
		ISBN:   c.prompt("isbn"),
		Owner:  c.current.Username,
	}
	if err := c.catalog.AddBook(ctx, book, c.current); err != nil {
		fmt.Println("add failed:", err)
		return
	}
	fmt.Println("book added")
}

func (c *console) removeBook(ctx context.Context) {
	if !c.loggedIn {
		fmt.Println("log in first")
		return
	}
	isbn := c.prompt("isbn")
	book, err := c.catalog.LookupBook(ctx, isbn, c.current.Username)
	if err != nil {
		fmt.Println("remove failed:", err)
		return
	}
	if err := c.catalog.RemoveBook(ctx, book, c.current); err != nil {
		fmt.Println("remove failed:", err)
		return
	}
	fmt.Println("book removed")
}

func (c *console) removeByISBN(ctx context.Context) {
	if !c.loggedIn {
		fmt.Println("log in first")
		return
	}
	if err := c.catalog.RemoveBookByISBN(ctx, c.prompt("isbn"), c.current); err != nil {
		fmt.Println("remove failed:", err)
		return
	}
	fmt.Println("book removed")
}

func (c *console) lookup(ctx context.Context) {
	book, err := c.catalog.LookupBook(ctx, c.prompt("isbn"), c.prompt("owner"))
	if err != nil {
		fmt.Println("lookup failed:", err)
		return
	}
	printBook(book)
}

func (c *console) list(ctx context.Context) {
	books, err := c.catalog.Books(ctx)
	if err != nil {
		fmt.Println("list failed:", err)
		return
	}
	for _, book := range books {
		printBook(book)
	}
	fmt.Printf("%d book(s)\n", len(books))
}

func (c *console) owners(ctx context.Context) {
	owners, err := c.catalog.OwnersForBook(ctx, c.prompt("isbn"))
	if err != nil {
		fmt.Println("owners failed:", err)
		return
	}
	for _, owner := range owners {
		fmt.Println(owner)
	}
}

func (c *console) booksForOwner(ctx context.Context) {
	books, err := c.catalog.BooksForOwner(ctx, c.prompt("owner"))
	if err != nil {
		fmt.Println("failed:", err)
		return
	}
	for _, book := range books {
		printBook(book)
	}
}

func (c *console) prompt(label string) string {
	fmt.Printf("%s: ", label)
	if !c.in.Scan() {
		return ""
	}
	return strings.TrimSpace(c.in.Text())
}

func printBook(b catalog.Book) {
	fmt.Printf("%s, %d, %q [%s] isbn=%s owner=%s\n",
		b.Author, b.Year, b.Title, b.Rating, b.ISBN, b.Owner)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
