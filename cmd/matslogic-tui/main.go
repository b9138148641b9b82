// matslogic-tui is a terminal browser over the matslogic HTTP API. It logs
// in with the given credentials, lists the account's graphs, and drills into
// nodes and their one-hop transitions with polarity coloring.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginLeft(2).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	contentStyle = lipgloss.NewStyle().
			MarginLeft(2).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)

	positiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))
	neutralStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	negativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
)

func polarityStyle(p string) lipgloss.Style {
	switch p {
	case "negative":
		return negativeStyle
	case "neutral":
		return neutralStyle
	default:
		return positiveStyle
	}
}

// apiClient is a thin authenticated client for the REST surface.
type apiClient struct {
	base  string
	token string
	http  *http.Client
}

func newAPIClient(base string) *apiClient {
	return &apiClient{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *apiClient) login(email, password string) error {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	resp, err := c.http.Post(c.base+"/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login failed: %s", resp.Status)
	}
	var tokens struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return err
	}
	c.token = tokens.AccessToken
	return nil
}

func (c *apiClient) get(path string, out any) error {
	req, err := http.NewRequest(http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(data)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type apiGraph struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type apiNode struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	GraphID int64  `json:"graph_id"`
}

type apiEdge struct {
	ID         int64  `json:"id"`
	FromNodeID int64  `json:"from_node_id"`
	ToNodeID   int64  `json:"to_node_id"`
	Polarity   string `json:"polarity"`
	Note       string `json:"note"`
}

func (c *apiClient) listGraphs() ([]apiGraph, error) {
	var graphs []apiGraph
	err := c.get("/graphs?limit=200", &graphs)
	return graphs, err
}

func (c *apiClient) listNodes(graphID int64) ([]apiNode, error) {
	var nodes []apiNode
	err := c.get(fmt.Sprintf("/nodes?graph_id=%d&limit=500", graphID), &nodes)
	return nodes, err
}

func (c *apiClient) outgoingEdges(nodeID int64) ([]apiEdge, error) {
	var edges []apiEdge
	err := c.get(fmt.Sprintf("/edges?from_node_id=%d&limit=1000", nodeID), &edges)
	return edges, err
}

func (c *apiClient) nextNodes(nodeID int64) ([]apiNode, error) {
	var nodes []apiNode
	err := c.get(fmt.Sprintf("/nodes/%d/next", nodeID), &nodes)
	return nodes, err
}

type view int

const (
	graphsView view = iota
	nodesView
	nextView
)

type keyMap struct {
	Enter key.Binding
	Back  key.Binding
	Quit  key.Binding
}

var keys = keyMap{
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "backspace"),
		key.WithHelp("esc", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

type graphItem struct{ g apiGraph }

func (i graphItem) Title() string       { return i.g.Title }
func (i graphItem) Description() string { return fmt.Sprintf("graph %d", i.g.ID) }
func (i graphItem) FilterValue() string { return i.g.Title }

type nodeItem struct{ n apiNode }

func (i nodeItem) Title() string       { return i.n.Name }
func (i nodeItem) Description() string { return fmt.Sprintf("node %d", i.n.ID) }
func (i nodeItem) FilterValue() string { return i.n.Name }

type graphsMsg []apiGraph
type nodesMsg []apiNode
type nextMsg struct {
	node  apiNode
	edges []apiEdge
	next  []apiNode
}
type errMsg struct{ err error }

type model struct {
	client      *apiClient
	currentView view
	graphList   list.Model
	nodeList    list.Model
	current     apiGraph
	focusNode   apiNode
	edges       []apiEdge
	next        []apiNode
	message     string
	width       int
	height      int
}

func initialModel(client *apiClient) model {
	gl := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	gl.Title = "Graphs"
	gl.SetShowHelp(false)

	nl := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	nl.Title = "Nodes"
	nl.SetShowHelp(false)

	return model{
		client:      client,
		currentView: graphsView,
		graphList:   gl,
		nodeList:    nl,
	}
}

func (m model) Init() tea.Cmd {
	return m.fetchGraphs
}

func (m model) fetchGraphs() tea.Msg {
	graphs, err := m.client.listGraphs()
	if err != nil {
		return errMsg{err}
	}
	return graphsMsg(graphs)
}

func (m model) fetchNodes(graphID int64) tea.Cmd {
	return func() tea.Msg {
		nodes, err := m.client.listNodes(graphID)
		if err != nil {
			return errMsg{err}
		}
		return nodesMsg(nodes)
	}
}

func (m model) fetchNext(node apiNode) tea.Cmd {
	return func() tea.Msg {
		edges, err := m.client.outgoingEdges(node.ID)
		if err != nil {
			return errMsg{err}
		}
		next, err := m.client.nextNodes(node.ID)
		if err != nil {
			return errMsg{err}
		}
		return nextMsg{node: node, edges: edges, next: next}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.graphList.SetSize(msg.Width-4, msg.Height-8)
		m.nodeList.SetSize(msg.Width-4, msg.Height-8)

	case graphsMsg:
		items := make([]list.Item, len(msg))
		for i, g := range msg {
			items[i] = graphItem{g}
		}
		m.graphList.SetItems(items)
		m.message = ""

	case nodesMsg:
		items := make([]list.Item, len(msg))
		for i, n := range msg {
			items[i] = nodeItem{n}
		}
		m.nodeList.SetItems(items)
		m.currentView = nodesView
		m.message = ""

	case nextMsg:
		m.focusNode = msg.node
		m.edges = msg.edges
		m.next = msg.next
		m.currentView = nextView
		m.message = ""

	case errMsg:
		m.message = msg.err.Error()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, keys.Back):
			switch m.currentView {
			case nextView:
				m.currentView = nodesView
			case nodesView:
				m.currentView = graphsView
			}
			return m, nil

		case key.Matches(msg, keys.Enter):
			switch m.currentView {
			case graphsView:
				if item, ok := m.graphList.SelectedItem().(graphItem); ok {
					m.current = item.g
					return m, m.fetchNodes(item.g.ID)
				}
			case nodesView:
				if item, ok := m.nodeList.SelectedItem().(nodeItem); ok {
					return m, m.fetchNext(item.n)
				}
			}
		}
	}

	switch m.currentView {
	case graphsView:
		m.graphList, cmd = m.graphList.Update(msg)
	case nodesView:
		m.nodeList, cmd = m.nodeList.Update(msg)
	}
	return m, cmd
}

func (m model) View() string {
	if m.width == 0 {
		return "Connecting..."
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("MatsLogic"))
	s.WriteString("\n\n")

	switch m.currentView {
	case graphsView:
		s.WriteString(m.graphList.View())
	case nodesView:
		s.WriteString(headerStyle.Render(m.current.Title))
		s.WriteString("\n\n")
		s.WriteString(m.nodeList.View())
	case nextView:
		s.WriteString(m.renderNext())
	}

	if m.message != "" {
		s.WriteString("\n\n")
		s.WriteString(errorStyle.Render(m.message))
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("enter open • esc back • q quit"))
	return s.String()
}

func (m model) renderNext() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render(fmt.Sprintf("%s — transitions", m.focusNode.Name)))
	s.WriteString("\n\n")

	if len(m.edges) == 0 {
		s.WriteString(helpStyle.Render("no outgoing transitions"))
		return contentStyle.Render(s.String())
	}

	names := make(map[int64]string, len(m.next))
	for _, n := range m.next {
		names[n.ID] = n.Name
	}

	for _, e := range m.edges {
		target := names[e.ToNodeID]
		if target == "" {
			target = fmt.Sprintf("node %d", e.ToNodeID)
		}
		line := fmt.Sprintf("→ %s [%s]", target, e.Polarity)
		if e.Note != "" {
			line += "  " + e.Note
		}
		s.WriteString(polarityStyle(e.Polarity).Render(line))
		s.WriteString("\n")
	}

	return contentStyle.Render(s.String())
}

func main() {
	addr := flag.String("addr", "http://localhost:8080", "Server base URL")
	email := flag.String("email", os.Getenv("MATSLOGIC_EMAIL"), "Account email")
	password := flag.String("password", os.Getenv("MATSLOGIC_PASSWORD"), "Account password")
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: matslogic-tui -email <email> -password <password> [-addr <url>]")
		os.Exit(2)
	}

	client := newAPIClient(*addr)
	if err := client.login(*email, *password); err != nil {
		log.Fatalf("Failed to log in: %v", err)
	}

	p := tea.NewProgram(initialModel(client), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}
}
