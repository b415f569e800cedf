package detection

const shelfPrompt = `You are a virtual librarian digitising a home book collection from photographs. Analyse the image with the greatest care.

Instructions:
1. IDENTIFY BOOKS ONLY: look only at book spines. Ignore publisher logos and imprints (for example "Feltrinelli", "Mondadori", "Penguin"), series numbers (for example "1062", "444") and any other text that is not clearly a title or an author. Books may be in Italian or English.
2. EXTRACT TITLE AND AUTHOR: for every book you identify, extract its full title and the author's full name exactly as printed.
3. UNCERTAIN CASES:
   - If you can clearly read only an author's name and not the title, output the title "Unknown" with the author you read.
   - If you can clearly read only a title and not the author, output that title with the author "Unknown".
   - If a book is illegible or you are unsure, do not include it. It is better to omit a book than to invent one.
4. STRICT OUTPUT FORMAT: return only a valid JSON array. Every element must be an object with the two keys "title" and "author". Do not add any comment or text before or after the array.

Example of perfect output:
[
  {"title": "Memorie di Adriano", "author": "Marguerite Yourcenar"},
  {"title": "Il Piccolo Principe", "author": "Antoine de Saint-Exupéry"},
  {"title": "Unknown", "author": "Colette"}
]`

// candidateSchema describes the model output accepted for resolution. Only
// the array itself is enforced; elements are normalized one by one.
const candidateSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array"
}`
