package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"bookery/internal/catalog"
	"bookery/internal/session"
)

type CatalogClient struct {
	baseURL string
}

func NewCatalogClient(baseURL string) *CatalogClient {
	return &CatalogClient{baseURL: baseURL}
}

func (c *CatalogClient) AddBook(ctx context.Context, book catalog.Book, sess session.Session) error {
	body := struct {
		Book    catalog.Book    `json:"book"`
		Session session.Session `json:"session"`
	}{book, sess}
	return postJSON(ctx, c.baseURL+"/books", body, nil)
}

func (c *CatalogClient) RemoveBook(ctx context.Context, book catalog.Book, sess session.Session) error {
	body := struct {
		Book    catalog.Book    `json:"book"`
		Session session.Session `json:"session"`
	}{book, sess}
	return deleteJSON(ctx, c.baseURL+"/books", body)
}

func (c *CatalogClient) RemoveBookByISBN(ctx context.Context, isbn string, sess session.Session) error {
	body := struct {
		Session session.Session `json:"session"`
	}{sess}
	return deleteJSON(ctx, fmt.Sprintf("%s/books/%s", c.baseURL, isbn), body)
}

func (c *CatalogClient) LookupBook(ctx context.Context, isbn, owner string) (catalog.Book, error) {
	var book catalog.Book
	u := fmt.Sprintf("%s/books/%s?owner=%s", c.baseURL, isbn, url.QueryEscape(owner))
	err := getJSON(ctx, u, &book)
	return book, err
}

func (c *CatalogClient) Books(ctx context.Context) ([]catalog.Book, error) {
	var books []catalog.Book
	err := getJSON(ctx, c.baseURL+"/books", &books)
	return books, err
}

func (c *CatalogClient) OwnersForBook(ctx context.Context, isbn string) ([]string, error) {
	var owners []string
	err := getJSON(ctx, fmt.Sprintf("%s/books/%s/owners", c.baseURL, isbn), &owners)
	return owners, err
}

func (c *CatalogClient) BooksForOwner(ctx context.Context, owner string) ([]catalog.Book, error) {
	var books []catalog.Book
	err := getJSON(ctx, fmt.Sprintf("%s/owners/%s/books", c.baseURL, owner), &books)
	return books, err
}

func getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	return decodeBody(resp, out)
}
